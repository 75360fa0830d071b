package mapper

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

const ProviderMeetingBaas = "meetingbaas"

type MapperRegistry struct {
	mu      sync.RWMutex
	mappers map[string]EventMapper
}

func NewMapperRegistry() *MapperRegistry {
	registry := &MapperRegistry{
		mappers: make(map[string]EventMapper),
	}

	registry.Register(ProviderMeetingBaas, NewMeetingBaasMapper())

	return registry
}

func (r *MapperRegistry) Register(provider string, mapper EventMapper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappers[provider] = mapper
}

func (r *MapperRegistry) Get(provider string) (EventMapper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mapper, exists := r.mappers[provider]
	if !exists {
		supported := make([]string, 0, len(r.mappers))
		for name := range r.mappers {
			supported = append(supported, name)
		}
		sort.Strings(supported)
		return nil, fmt.Errorf("unsupported provider: %s (supported: %s)", provider, strings.Join(supported, ", "))
	}

	return mapper, nil
}

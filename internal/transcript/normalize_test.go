package transcript_test

import (
	"encoding/json"

	"callnote.app/server/internal/transcript"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Normalize", func() {
	It("accepts a flat segment list", func() {
		segs, ok, err := transcript.Normalize(json.RawMessage(`[
			{"speaker":"Alex","start":0,"end":1.5,"text":"hi"},
			{"speaker":"Sam","start":2,"words":[{"word":"yo","start":2,"end":2.2}]}
		]`))
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(segs).To(HaveLen(2))
		Expect(segs[0].Speaker).To(Equal("Alex"))
		Expect(*segs[0].End).To(Equal(1.5))
		Expect(segs[1].End).To(BeNil())
		Expect(segs[1].Words[0].Word).To(Equal("yo"))
	})

	It("accepts the nested result.utterances document", func() {
		segs, ok, err := transcript.Normalize(json.RawMessage(`{
			"result": {"utterances": [{"speaker":1,"start":3.5,"end":4,"text":"hello"}]}
		}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(segs).To(HaveLen(1))
		Expect(segs[0].Speaker).To(Equal("Speaker 1"))
		Expect(segs[0].Start).To(Equal(3.5))
	})

	It("produces the same merge input for both shapes", func() {
		flat, _, err := transcript.Normalize(json.RawMessage(`[{"speaker":"A","start":0,"end":1,"text":"x"}]`))
		Expect(err).NotTo(HaveOccurred())
		nested, _, err := transcript.Normalize(json.RawMessage(`{"result":{"utterances":[{"speaker":"A","start":0,"end":1,"text":"x"}]}}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(transcript.Merge(nested)).To(Equal(transcript.Merge(flat)))
	})

	DescribeTable("reports absent transcripts without error",
		func(raw string) {
			segs, ok, err := transcript.Normalize(json.RawMessage(raw))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(segs).To(BeNil())
		},
		Entry("empty", ``),
		Entry("null", `null`),
		Entry("object without result", `{"status":"done"}`),
		Entry("string", `"https://example.com/t.json"`),
	)

	It("fails on a malformed list", func() {
		_, _, err := transcript.Normalize(json.RawMessage(`[{"speaker":"A","start":"soon"}]`))
		Expect(err).To(HaveOccurred())
	})
})

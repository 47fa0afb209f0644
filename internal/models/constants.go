package models

const (
	DefaultChunkSize    = 2000 // characters
	DefaultChunkOverlap = 500  // characters
	DefaultTopK         = 3
	DefaultBatchSize    = 10

	// DefaultInferenceModel is the last-resort model identifier used when
	// the model listing call fails and no preference matches.
	DefaultInferenceModel = "gpt-4o-mini"
)

// DefaultPreferredModels is tried in order against the service's model
// listing at startup.
var DefaultPreferredModels = []string{
	"gpt-4o-mini",
	"gpt-4o",
	"gpt-4.1-mini",
	"gpt-4-turbo",
	"gpt-3.5-turbo",
}

var (
	// ContextEntryTemplate formats one retrieved chunk for the prompt:
	// content first, citation line second.
	ContextEntryTemplate = "Content: %s\nReference: [Source: %s, Page: %d]\n\n"

	// SourceRefTemplate is the citation shown to the user next to the answer.
	SourceRefTemplate = "[Source: %s, Page: %d]"

	AnswerPromptTemplate = `You are a helpful assistant. Use the following Retrieved Context to answer the user's question.

--- RETRIEVED CONTEXT ---
%s
-------------------------

USER QUESTION: %s

INSTRUCTIONS:
1. Answer only based on the context above.
2. If the answer is not in the context, say "I don't know based on the documents."
3. Cite the 'Reference' (Source and Page) for every fact you state.
`
)

package domain

// NoRelevantLawAnswer is returned when the ranked list is empty.
// It is a normal success outcome, not an error, and no generative
// model call is made to produce it.
const NoRelevantLawAnswer = "No relevant law was found for your question. " +
	"Please try rephrasing it, or consult a qualified lawyer for advice."

// Answer is the final cited response to a legal question.
type Answer struct {
	// Text is the generated answer, or the canned no-law message.
	Text string

	// CitedPassage is the single winning passage the answer cites.
	// Nil when no relevant passage was found.
	CitedPassage *Passage

	// Sources carries every ranked candidate, not just the winner,
	// so callers can show alternative matches.
	Sources []SimilarityResult
}

package constant

const (
	// ClassifierPromptV2 asks the reasoning service to grade a bounded set of
	// candidate cards against one slide concept. The response MUST be bare JSON:
	// the parser rejects anything that does not unmarshal into the match schema.
	//
	// Format args: slide concept text, numbered candidate block, minimum
	// relevance score.
	ClassifierPromptV2 = `You are a curriculum alignment grader for a medical flashcard deck.

A lecture slide teaches the following concept:

%s

Below are candidate flashcards from the student's deck. For EACH candidate decide how it aligns with the slide's teaching depth:
- "directly_aligned": the card tests the same concept the slide teaches, at the same depth
- "deeper_than_lecture": the card goes beyond the depth the slide teaches
- "too_shallow": the card touches the topic but below the slide's depth
- "not_aligned": the card is unrelated to the slide

Candidates:
%s

Rules:
1. Give each relevant card a relevance_score from 0 to 100.
2. OMIT cards scoring below %d entirely. An empty matches list is valid.
3. reasoning must be ONE short sentence.
4. Respond with ONLY this JSON, no markdown, no commentary:
{"matches":[{"card_id":"<id>","alignment_type":"directly_aligned","relevance_score":90,"reasoning":"..."}]}`

	// GapAnalysisPromptV1 describes missing curriculum coverage for a slide that
	// has only a weak set of directly aligned cards.
	//
	// Format args: slide concept text, matched card summaries block.
	GapAnalysisPromptV1 = `You are a curriculum coverage reviewer.

A lecture slide teaches the following concept:

%s

The student's flashcard deck covers it with ONLY these cards:
%s

In one or two sentences, describe what part of the slide's concept the deck does NOT test. If the cards above actually cover the concept adequately, say so.

Respond with ONLY this JSON, no markdown, no commentary:
{"gap":"<description of missing coverage>"} or {"gap":null} when coverage is adequate.`
)

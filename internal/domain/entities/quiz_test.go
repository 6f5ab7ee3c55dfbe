package entities

import (
	"encoding/json"
	"errors"
	"testing"
)

const backendQuiz = `{
  "id": 7,
  "url": "https://en.wikipedia.org/wiki/Alan_Turing",
  "title": "Alan Turing",
  "summary": "English mathematician.",
  "key_entities": {"people": ["Alan Turing"], "organizations": ["GCHQ"], "locations": []},
  "sections": ["Early life"],
  "quiz": [
    {"question": "Where was Turing born?", "options": ["London", "Paris", "Rome", "Oslo"], "answer": "London", "difficulty": "easy", "explanation": "Maida Vale, London.", "section_reference": "Early life"}
  ],
  "related_topics": ["Enigma machine"],
  "created_at": "2025-01-02T10:00:00Z"
}`

// TestQuizDecodesBackendShape ensures the backend wire format maps onto Quiz.
func TestQuizDecodesBackendShape(t *testing.T) {
	var q Quiz
	if err := json.Unmarshal([]byte(backendQuiz), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.ID != 7 || q.Title != "Alan Turing" || len(q.Questions) != 1 {
		t.Fatalf("unexpected quiz %+v", q)
	}
	if q.Questions[0].Text != "Where was Turing born?" || q.Questions[0].SectionReference != "Early life" {
		t.Fatalf("unexpected question %+v", q.Questions[0])
	}
	if q.KeyEntities.IsEmpty() {
		t.Fatalf("expected key entities")
	}
	if q.CreatedAt == nil || q.CreatedAt.Year() != 2025 {
		t.Fatalf("unexpected created_at %v", q.CreatedAt)
	}
	if err := q.Document().Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

// TestDocumentValidate reports the first external-data violation.
func TestDocumentValidate(t *testing.T) {
	if err := (Document{}).Validate(); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}

	doc := Document{Questions: []Question{
		{Text: "ok", Options: []string{"a", "b"}, Answer: "a"},
		{Text: "bad", Options: []string{"a", "b"}, Answer: "c"},
	}}
	if err := doc.Validate(); !errors.Is(err, ErrAnswerNotInOptions) {
		t.Fatalf("expected ErrAnswerNotInOptions, got %v", err)
	}

	doc = Document{Questions: []Question{{Text: "q", Options: []string{"a"}, Answer: "a", Difficulty: "extreme"}}}
	if err := doc.Validate(); !errors.Is(err, ErrUnknownDifficulty) {
		t.Fatalf("expected ErrUnknownDifficulty, got %v", err)
	}
}

// TestDifficultyMix counts questions per difficulty.
func TestDifficultyMix(t *testing.T) {
	q := Quiz{Questions: []Question{
		{Difficulty: DifficultyEasy},
		{Difficulty: DifficultyEasy},
		{Difficulty: DifficultyHard},
	}}
	mix := q.DifficultyMix()
	if mix[DifficultyEasy] != 2 || mix[DifficultyHard] != 1 || mix[DifficultyMedium] != 0 {
		t.Fatalf("unexpected mix %v", mix)
	}
}

// TestSessionStateCloneIsDeep ensures clones share no maps or pointers.
func TestSessionStateCloneIsDeep(t *testing.T) {
	score := 2
	st := SessionState{Selections: map[int]string{0: "a"}, Submitted: true, Score: &score}
	cp := st.Clone()
	cp.Selections[0] = "b"
	*cp.Score = 5
	if st.Selections[0] != "a" || *st.Score != 2 {
		t.Fatalf("clone shares state with original")
	}
}

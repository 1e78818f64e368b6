package paper

import (
	"crypto/rand"
	"fmt"
	"hash/fnv"
	mathrand "math/rand"
	"time"
)

// NewPaper builds the final paper record from a finished generation run.
// When the rules request randomized order the shuffle is seeded from the
// paper ID, so a stored paper always reads back in the order it was created.
func NewPaper(syllabusID, courseName string, rules Rules, res *Result) Paper {
	p := Paper{
		ID:             paperID(),
		SyllabusID:     syllabusID,
		CourseName:     courseName,
		GeneratedAt:    time.Now().UTC(),
		TotalMarks:     res.TotalMarks,
		TotalQuestions: len(res.Questions),
		Questions:      res.Questions,
		Rules:          rules,
		Coverage:       res.Coverage,
		Warnings:       res.Warnings,
	}

	if rules.RandomizeOrder {
		p.Questions = shuffled(p.Questions, p.ID)
	}
	return p
}

func shuffled(questions []Question, seed string) []Question {
	h := fnv.New64a()
	h.Write([]byte(seed))
	rng := mathrand.New(mathrand.NewSource(int64(h.Sum64())))

	out := make([]Question, len(questions))
	copy(out, questions)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func paperID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("qp_%x", b)
}

package client

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/atinyakov/FlashCards/internal/models"
)

// Prompter reads answers line by line and writes prompts.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter reads from in and writes to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Ask prints label and returns the next input line. ok is false at end of
// input.
func (p *Prompter) Ask(label string) (line string, ok bool) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		return "", false
	}
	return p.in.Text(), true
}

// PromptCard asks for a question and an answer.
func (p *Prompter) PromptCard() (question, answer string, ok bool) {
	if question, ok = p.Ask("Question: "); !ok {
		return "", "", false
	}
	if answer, ok = p.Ask("Answer: "); !ok {
		return "", "", false
	}
	return question, answer, true
}

// StudyResult counts self-graded answers of a study run.
type StudyResult struct {
	Known, Unknown int
}

// Study walks through cards in random order. Each question waits for
// Enter, then the answer is shown and the user grades it with y/n. "q"
// ends the run early.
func (p *Prompter) Study(cards []models.Card, shuffle func(n int, swap func(i, j int))) StudyResult {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	deck := make([]models.Card, len(cards))
	copy(deck, cards)
	shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	var res StudyResult
	for i, c := range deck {
		fmt.Fprintf(p.out, "[%d/%d] %s\n", i+1, len(deck), c.Question)
		line, ok := p.Ask("(Enter to reveal) ")
		if !ok || strings.TrimSpace(line) == "q" {
			break
		}
		fmt.Fprintf(p.out, "  -> %s\n", c.Answer)
		line, ok = p.Ask("Did you know it? [y/n] ")
		if !ok {
			break
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "i", "igen":
			res.Known++
		case "q":
			return res
		default:
			res.Unknown++
		}
	}
	fmt.Fprintf(p.out, "Known: %d, to review: %d\n", res.Known, res.Unknown)
	return res
}

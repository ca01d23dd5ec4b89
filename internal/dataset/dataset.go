// Package dataset holds the record shapes of the Russian SuperGLUE tasks, as
// far as normalisation and scoring need them.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an item identifier. Some task files carry numeric identifiers as
// strings, so both forms decode to the same canonical value.
type ID string

func IntID(i int) ID { return ID(strconv.Itoa(i)) }

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = canonical(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("idx must be a number or a string, got %s", data)
	}
	*id = canonical(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func canonical(s string) ID {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ID(strconv.FormatInt(n, 10))
	}
	return ID(s)
}

// Item is the task-independent view of a record: its id and raw label.
type Item struct {
	Idx   ID              `json:"idx"`
	Label json.RawMessage `json:"label,omitempty"`
}

// Prediction is a normalised answer for a flat task.
type Prediction struct {
	Idx   ID  `json:"idx"`
	Label any `json:"label"`
}

type DaNetQA struct {
	Idx      ID     `json:"idx"`
	Question string `json:"question"`
	Passage  string `json:"passage"`
}

type PARus struct {
	Idx      ID     `json:"idx"`
	Premise  string `json:"premise"`
	Choice1  string `json:"choice1"`
	Choice2  string `json:"choice2"`
	Question string `json:"question"`
}

// Pair covers the premise/hypothesis tasks RCB and TERRa.
type Pair struct {
	Idx        ID     `json:"idx"`
	Premise    string `json:"premise"`
	Hypothesis string `json:"hypothesis"`
}

type RUSSE struct {
	Idx       ID     `json:"idx"`
	Word      string `json:"word"`
	Sentence1 string `json:"sentence1"`
	Sentence2 string `json:"sentence2"`
}

type LiDiRus struct {
	Idx       ID              `json:"idx"`
	Sentence1 string          `json:"sentence1"`
	Sentence2 string          `json:"sentence2"`
	Label     json.RawMessage `json:"label,omitempty"`

	Logic                      *string `json:"logic,omitempty"`
	PredicateArgumentStructure *string `json:"predicate-argument-structure,omitempty"`
	LexicalSemantics           *string `json:"lexical-semantics,omitempty"`
	Knowledge                  *string `json:"knowledge,omitempty"`
}

type MuSeRC struct {
	Idx     ID            `json:"idx"`
	Passage MuSeRCPassage `json:"passage"`
}

type MuSeRCPassage struct {
	Text      string           `json:"text,omitempty"`
	Questions []MuSeRCQuestion `json:"questions"`
}

type MuSeRCQuestion struct {
	Idx      ID             `json:"idx"`
	Question string         `json:"question"`
	Answers  []MuSeRCAnswer `json:"answers"`
}

type MuSeRCAnswer struct {
	Idx   ID     `json:"idx"`
	Text  string `json:"text"`
	Label *int   `json:"label,omitempty"`
}

type RWSD struct {
	Idx    ID         `json:"idx"`
	Text   string     `json:"text"`
	Target RWSDTarget `json:"target"`
}

type RWSDTarget struct {
	Span1Text  string `json:"span1_text"`
	Span2Text  string `json:"span2_text"`
	Span1Index int    `json:"span1_index"`
	Span2Index int    `json:"span2_index"`
}

type RuCoS struct {
	Idx     ID           `json:"idx"`
	Passage RuCoSPassage `json:"passage"`
	Qas     []RuCoSQA    `json:"qas"`
}

type RuCoSPassage struct {
	Text        string `json:"text"`
	EntitySpans []Span `json:"entities"`
}

// Span offsets count characters, not bytes.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text,omitempty"`
}

type RuCoSQA struct {
	Idx     ID     `json:"idx"`
	Query   string `json:"query"`
	Answers []Span `json:"answers"`
}

// Entities returns the passage substrings the entity spans point at.
func (p RuCoSPassage) Entities() []string {
	runes := []rune(p.Text)
	entities := make([]string, len(p.EntitySpans))
	for i, span := range p.EntitySpans {
		entities[i] = slice(runes, span.Start, span.End)
	}
	return entities
}

// SpanText returns s.Text, falling back to the passage substring s points at.
func (p RuCoSPassage) SpanText(s Span) string {
	if s.Text != "" {
		return s.Text
	}
	return slice([]rune(p.Text), s.Start, s.End)
}

func slice(runes []rune, start, end int) string {
	start = max(0, min(start, len(runes)))
	end = max(start, min(end, len(runes)))
	return string(runes[start:end])
}

// Decode unmarshals raw task records into T.
func Decode[T any](raw []json.RawMessage) ([]T, error) {
	items := make([]T, len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &items[i]); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return items, nil
}

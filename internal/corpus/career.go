// Package corpus loads career category files into an ordered, read-only list
// of career records.
package corpus

import (
	"slices"
	"strings"
)

// DefaultCategory is used when a file does not declare one
const DefaultCategory = "Unknown"

// RequiredSkills groups skills by proficiency tier
type RequiredSkills struct {
	Basic        []string `json:"basic" validate:"required,dive,nonblank"`
	Intermediate []string `json:"intermediate" validate:"required,dive,nonblank"`
	Advanced     []string `json:"advanced" validate:"required,dive,nonblank"`
	Professional []string `json:"professional" validate:"required,dive,nonblank"`
}

// All returns every tier's skills, basic first
func (r RequiredSkills) All() []string {
	all := make([]string, 0, len(r.Basic)+len(r.Intermediate)+len(r.Advanced)+len(r.Professional))
	all = append(all, r.Basic...)
	all = append(all, r.Intermediate...)
	all = append(all, r.Advanced...)
	all = append(all, r.Professional...)
	return all
}

// Career is one career entry of the corpus
type Career struct {
	Name           string         `json:"name" validate:"nonblank"`
	Category       string         `json:"category"`
	Overview       string         `json:"overview"`
	Demand         string         `json:"demand"`
	Advantages     []string       `json:"advantages" validate:"required,dive,nonblank"`
	Disadvantages  []string       `json:"disadvantages" validate:"required,dive,nonblank"`
	RequiredSkills RequiredSkills `json:"required_skills"`
	RelatedSkills  []string       `json:"related_skills" validate:"required,dive,nonblank"`

	// CombinedText is derived by BuildText and never read from a file
	CombinedText string `json:"-"`
}

// BuildText derives the text that represents the career for embedding:
// category, name, overview, all tier skills and related skills, joined by
// single spaces.
func (c Career) BuildText() string {
	return strings.Join([]string{
		c.Category,
		c.Name,
		c.Overview,
		strings.Join(c.RequiredSkills.All(), " "),
		strings.Join(c.RelatedSkills, " "),
	}, " ")
}

// Clone returns a copy that shares no slices with c
func (c Career) Clone() Career {
	c.Advantages = slices.Clone(c.Advantages)
	c.Disadvantages = slices.Clone(c.Disadvantages)
	c.RequiredSkills = RequiredSkills{
		Basic:        slices.Clone(c.RequiredSkills.Basic),
		Intermediate: slices.Clone(c.RequiredSkills.Intermediate),
		Advanced:     slices.Clone(c.RequiredSkills.Advanced),
		Professional: slices.Clone(c.RequiredSkills.Professional),
	}
	c.RelatedSkills = slices.Clone(c.RelatedSkills)
	return c
}

// File is the decoded form of one category file
type File struct {
	Category *string  `json:"category"`
	Careers  []Career `json:"careers" validate:"required,dive"`
}

// CategoryName returns the declared category or DefaultCategory
func (f *File) CategoryName() string {
	if f.Category == nil {
		return DefaultCategory
	}
	return *f.Category
}

// Corpus is the ordered list of loaded careers
type Corpus []Career

// Texts returns the combined text of every career, in corpus order
func (c Corpus) Texts() []string {
	texts := make([]string, len(c))
	for i, career := range c {
		texts[i] = career.CombinedText
	}
	return texts
}

// CategoryCount is the number of careers loaded for one category
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Categories lists categories in order of first appearance
func (c Corpus) Categories() []CategoryCount {
	var out []CategoryCount
	pos := make(map[string]int)
	for _, career := range c {
		i, ok := pos[career.Category]
		if !ok {
			i = len(out)
			pos[career.Category] = i
			out = append(out, CategoryCount{Name: career.Category})
		}
		out[i].Count++
	}
	return out
}

// Filter returns the careers of one category, matched case-insensitively
func (c Corpus) Filter(category string) Corpus {
	var out Corpus
	for _, career := range c {
		if strings.EqualFold(career.Category, category) {
			out = append(out, career)
		}
	}
	return out
}

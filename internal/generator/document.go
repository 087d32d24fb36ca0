package generator

import (
	"errors"
)

// DefaultMaxDocumentAttempts is the retry budget for one unique document.
const DefaultMaxDocumentAttempts = 1000

const (
	cpfLength  = 11
	cnpjLength = 14
)

var (
	cpfWeights1  = []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	cpfWeights2  = []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// DocumentRegistry tracks the documents handed out during one run.
type DocumentRegistry struct {
	seen        map[string]struct{}
	maxAttempts int
}

// NewDocumentRegistry returns an empty registry. maxAttempts below one falls
// back to DefaultMaxDocumentAttempts.
func NewDocumentRegistry(maxAttempts int) *DocumentRegistry {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxDocumentAttempts
	}
	return &DocumentRegistry{
		seen:        make(map[string]struct{}),
		maxAttempts: maxAttempts,
	}
}

// Contains reports whether doc was already issued.
func (r *DocumentRegistry) Contains(doc string) bool {
	_, ok := r.seen[doc]
	return ok
}

// Len returns the number of issued documents.
func (r *DocumentRegistry) Len() int {
	return len(r.seen)
}

// claim draws candidates until one is unseen, then records it.
func (r *DocumentRegistry) claim(next func() string) (string, error) {
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		doc := next()
		if _, ok := r.seen[doc]; ok {
			continue
		}
		r.seen[doc] = struct{}{}
		return doc, nil
	}
	return "", ErrDocumentSpaceExhausted
}

// UniqueDocument returns a CPF- or CNPJ-shaped document not yet present in reg
// and records it there.
func (g *Generator) UniqueDocument(reg *DocumentRegistry) (string, error) {
	if reg == nil {
		return "", errors.New("generator: nil document registry")
	}
	return reg.claim(g.document)
}

func (g *Generator) document() string {
	if g.faker.Bool() {
		return g.cpf()
	}
	return g.cnpj()
}

// cpf returns 11 digits: 9 random plus two mod-11 check digits.
func (g *Generator) cpf() string {
	digits := toDigits(g.faker.Numerify("#########"))
	digits = append(digits, checkDigit(digits, cpfWeights1))
	digits = append(digits, checkDigit(digits, cpfWeights2))
	return fromDigits(digits)
}

// cnpj returns 14 digits: 8 random, branch 0001, two mod-11 check digits.
func (g *Generator) cnpj() string {
	digits := toDigits(g.faker.Numerify("########") + "0001")
	digits = append(digits, checkDigit(digits, cnpjWeights1))
	digits = append(digits, checkDigit(digits, cnpjWeights2))
	return fromDigits(digits)
}

func checkDigit(digits, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

// ValidDocument reports whether doc is an 11-digit CPF or 14-digit CNPJ with
// correct check digits.
func ValidDocument(doc string) bool {
	var w1, w2 []int
	switch len(doc) {
	case cpfLength:
		w1, w2 = cpfWeights1, cpfWeights2
	case cnpjLength:
		w1, w2 = cnpjWeights1, cnpjWeights2
	default:
		return false
	}
	for _, c := range doc {
		if c < '0' || c > '9' {
			return false
		}
	}
	digits := toDigits(doc)
	n := len(digits)
	return checkDigit(digits[:n-2], w1) == digits[n-2] &&
		checkDigit(digits[:n-1], w2) == digits[n-1]
}

func toDigits(s string) []int {
	out := make([]int, 0, len(s)+2)
	for _, c := range s {
		out = append(out, int(c-'0'))
	}
	return out
}

func fromDigits(digits []int) string {
	b := make([]byte, len(digits))
	for i, d := range digits {
		b[i] = byte('0' + d)
	}
	return string(b)
}

package extract

import (
	"errors"
	"fmt"

	"github.com/gokatarajesh/quizbank/internal/question"
)

var ErrUnknownStrategy = errors.New("unknown extraction strategy")

// Result is the tagged output of one document.
type Result struct {
	Module    string
	Kind      StrategyKind
	Questions []question.Question
}

// Router picks the assembly strategy for each document by module identifier.
type Router struct {
	classifier  Classifier
	strategies  map[string]Strategy
	classifiers map[string]Classifier
}

// RouterOption customizes a Router.
type RouterOption func(*Router)

// WithStrategy registers s for module, replacing any built-in entry.
func WithStrategy(module string, s Strategy) RouterOption {
	return func(r *Router) {
		r.strategies[module] = s
	}
}

// WithClassifier overrides the classifier used for module.
func WithClassifier(module string, c Classifier) RouterOption {
	return func(r *Router) {
		r.classifiers[module] = c
	}
}

// NewRouter returns a router seeded with the built-in irregular modules.
func NewRouter(classifier Classifier, opts ...RouterOption) *Router {
	r := &Router{
		classifier:  classifier,
		strategies:  BuiltinStrategies(),
		classifiers: map[string]Classifier{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Strategy returns the strategy registered for module, or General.
func (r *Router) Strategy(module string) Strategy {
	if s, ok := r.strategies[module]; ok && s != nil {
		return s
	}
	return General{}
}

func (r *Router) classifierFor(module string) Classifier {
	if c, ok := r.classifiers[module]; ok {
		return c
	}
	return r.classifier
}

// Extract runs the module's strategy over doc and tags every record with the module.
func (r *Router) Extract(doc Document) (Result, error) {
	s := r.Strategy(doc.Module)
	qs, err := s.Extract(doc, Assembler{Classifier: r.classifierFor(doc.Module)})
	if err != nil {
		return Result{}, fmt.Errorf("%s strategy: %w", s.Kind(), err)
	}
	for i := range qs {
		qs[i].Module = doc.Module
		qs[i].ID = question.ID(doc.Module, qs[i].Number)
	}
	return Result{Module: doc.Module, Kind: s.Kind(), Questions: qs}, nil
}

// StrategyFor resolves a configured strategy kind for module. A kind matching
// the module's built-in entry returns that entry; bullet-leading without a
// built-in uses the default fallback explanation. Synthesized ranges carry
// authored content and exist only as built-ins.
func StrategyFor(module string, kind StrategyKind) (Strategy, error) {
	if builtin, ok := BuiltinStrategies()[module]; ok && builtin.Kind() == kind {
		return builtin, nil
	}
	switch kind {
	case KindGeneral:
		return General{}, nil
	case KindBulletLeading:
		return BulletLeading{FallbackExplanation: DefaultBulletExplanation}, nil
	case KindSynthesizedRange:
		return nil, fmt.Errorf("module %s: %w: no synthesized range defined", module, ErrUnknownStrategy)
	default:
		return nil, fmt.Errorf("module %s: %w: %q", module, ErrUnknownStrategy, kind)
	}
}

// DefaultExpectedCounts is the reference record count per module. Mismatches are advisory.
func DefaultExpectedCounts() map[string]int {
	return map[string]int{
		"1-3":  20,
		"4-6":  16,
		"7-8":  21,
		"9-11": 34,
	}
}

// BuiltinStrategies returns the registry of known irregular modules.
func BuiltinStrategies() map[string]Strategy {
	return map[string]Strategy{
		"7-8": BulletLeading{
			MaxNumber:           21,
			FallbackExplanation: DefaultBulletExplanation,
		},
		"9-11": SynthesizedRange{
			LastParsed: 20,
			Groups: []SynthesizedGroup{
				{
					From: 21,
					To:   26,
					Prompt: func(n int) string {
						return fmt.Sprintf("Exercise %d: Triangular arbitrage analysis - Identify quoted cross rate bank, solve implied cross rate, and determine buy/sell currency.", n)
					},
					SubQuestions: []question.Item{
						{Label: "a", Text: `Which bank offers the "Quoted Cross Rate?"`},
						{Label: "b", Text: "Solve for the implied cross rate using the quotes provided."},
						{Label: "c", Text: "Comparing the quoted and implied cross rates, which currency do you want to buy/sell?"},
					},
				},
				{
					From: 27,
					To:   33,
					Prompt: func(n int) string {
						return fmt.Sprintf("Exercise %d: Calculate triangular arbitrage profit starting with $5,750,000, showing each step in the arbitrage process.", n)
					},
				},
			},
			Final: &AuthoredQuestion{
				Number: 34,
				Prompt: "Doug Bernard specializes in cross-rate arbitrage. Given the quotes: Bank A: CHF/USD = CHF 1.5971/USD, " +
					"Bank B: AUD/USD = AUD 1.8215/USD, Bank C: AUD/CHF = AUD 1.1440/CHF. Does Doug have an arbitrage opportunity? " +
					"If so, what steps would he take, and how much would he profit with $1,000,000?",
			},
		},
	}
}

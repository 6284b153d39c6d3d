// Package classifier implements the Event Classifier: it turns a text message
// (an SMS body or a call transcript) into a scam verdict.
//
// Two layers are combined:
//   - a deterministic rule layer scanning four keyword families (urgency,
//     financial, impersonation, threat) plus a link detector, each contributing
//     a capped bucket of points;
//   - a multinomial naive Bayes model trained once, at construction, on a small
//     fixed corpus.
//
// Final confidence = round(RuleWeight*rule + ModelWeight*model). A Classifier
// is immutable after New and safe for concurrent use.
package classifier

import (
	"fmt"
	"math"
	"strings"
)

// Verdict categories.
const (
	CategoryFinancialImpersonation = "financial_impersonation"
	CategoryFinancialScam          = "financial_scam"
	CategoryImpersonation          = "impersonation"
	CategoryThreatScam             = "threat_scam"
	CategoryPhishing               = "phishing"
	CategorySuspiciousLink         = "suspicious_link"
	CategorySocialEngineering      = "social_engineering"
	CategorySafe                   = "safe"
)

// SafeExplanation is emitted when no rule or model signal fired.
const SafeExplanation = "No suspicious patterns detected. Message appears safe."

const reasonSeparator = " | "

// Verdict is the classifier output.
type Verdict struct {
	IsScam      bool   `json:"is_scam"`
	Confidence  int    `json:"confidence"`
	Category    string `json:"category"`
	Explanation string `json:"explanation"`

	// RuleScore and ModelConfidence expose the two layers, both 0..100.
	RuleScore       int `json:"rule_score"`
	ModelConfidence int `json:"model_confidence"`
}

// Classifier scores text messages. Construct with New.
type Classifier struct {
	model       *naiveBayes
	ruleWeight  float64
	modelWeight float64
	threshold   int
}

// Option customises a Classifier.
type Option func(*config)

type config struct {
	scam, safe  []string
	alpha       float64
	ruleWeight  float64
	modelWeight float64
	threshold   int
}

// WithCorpus replaces the training corpus.
func WithCorpus(scam, safe []string) Option {
	return func(c *config) { c.scam, c.safe = scam, safe }
}

// WithThreshold sets the confidence at or above which a verdict is a scam.
func WithThreshold(t int) Option {
	return func(c *config) { c.threshold = t }
}

// WithWeights sets the blend between the rule layer and the model.
func WithWeights(rule, model float64) Option {
	return func(c *config) { c.ruleWeight, c.modelWeight = rule, model }
}

// New trains the model and returns a ready Classifier.
func New(opts ...Option) *Classifier {
	cfg := config{
		scam:        defaultScamCorpus,
		safe:        defaultSafeCorpus,
		alpha:       1.0,
		ruleWeight:  0.6,
		modelWeight: 0.4,
		threshold:   40,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return &Classifier{
		model:       trainNaiveBayes(cfg.scam, cfg.safe, cfg.alpha),
		ruleWeight:  cfg.ruleWeight,
		modelWeight: cfg.modelWeight,
		threshold:   cfg.threshold,
	}
}

// ScamProbability returns the model's P(scam) for text, in [0,1].
func (c *Classifier) ScamProbability(text string) float64 {
	return c.model.scamProbability(Normalize(text))
}

// Classify scores text. It never fails: empty or unrecognisable input is a
// low-confidence safe verdict.
func (c *Classifier) Classify(text string) Verdict {
	normalized := Normalize(text)
	rules := scanRules(text, normalized)

	p := c.model.scamProbability(normalized)
	if math.IsNaN(p) {
		p = 0
	}
	modelConf := int(p * 100)

	final := int(math.Round(c.ruleWeight*float64(rules.Score) + c.modelWeight*p*100))
	final = min(max(final, 0), 100)

	reasons := rules.Reasons
	if p > 0.5 {
		reasons = append(reasons, fmt.Sprintf("ML model detected scam pattern (%d%% confidence)", modelConf))
	}
	explanation := SafeExplanation
	if len(reasons) > 0 {
		explanation = strings.Join(reasons, reasonSeparator)
	}

	return Verdict{
		IsScam:          final >= c.threshold,
		Confidence:      final,
		Category:        rules.category(),
		Explanation:     explanation,
		RuleScore:       rules.Score,
		ModelConfidence: modelConf,
	}
}

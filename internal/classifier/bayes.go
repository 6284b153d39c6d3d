package classifier

import (
	"math"
	"regexp"
)

// tokenRE mirrors a classic bag-of-words tokenizer: runs of two or more word
// characters.
var tokenRE = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

func tokenize(normalized string) []string {
	return tokenRE.FindAllString(normalized, -1)
}

// naiveBayes is a two-class multinomial naive Bayes model with Laplace
// smoothing. It is immutable after training.
type naiveBayes struct {
	vocab     map[string]int
	logPrior  [2]float64
	logLikely [2][]float64
}

const (
	classSafe = 0
	classScam = 1
)

// trainNaiveBayes fits the model on labelled documents. alpha is the additive
// smoothing constant.
func trainNaiveBayes(scam, safe []string, alpha float64) *naiveBayes {
	m := &naiveBayes{vocab: map[string]int{}}

	docs := [2][][]string{}
	for _, d := range safe {
		docs[classSafe] = append(docs[classSafe], tokenize(Normalize(d)))
	}
	for _, d := range scam {
		docs[classScam] = append(docs[classScam], tokenize(Normalize(d)))
	}
	for c := range docs {
		for _, toks := range docs[c] {
			for _, tok := range toks {
				if _, ok := m.vocab[tok]; !ok {
					m.vocab[tok] = len(m.vocab)
				}
			}
		}
	}

	total := float64(len(scam) + len(safe))
	v := float64(len(m.vocab))
	for c := range docs {
		counts := make([]float64, len(m.vocab))
		var sum float64
		for _, toks := range docs[c] {
			for _, tok := range toks {
				counts[m.vocab[tok]]++
				sum++
			}
		}
		if total > 0 {
			m.logPrior[c] = math.Log(float64(len(docs[c])) / total)
		} else {
			m.logPrior[c] = math.Log(0.5)
		}
		m.logLikely[c] = make([]float64, len(m.vocab))
		for i, n := range counts {
			m.logLikely[c][i] = math.Log((n + alpha) / (sum + alpha*v))
		}
	}
	return m
}

// scamProbability returns P(scam | text) in [0,1]. Tokens outside the
// training vocabulary carry no evidence; text with none left scores the
// class prior.
func (m *naiveBayes) scamProbability(normalized string) float64 {
	joint := m.logPrior
	for _, tok := range tokenize(normalized) {
		i, ok := m.vocab[tok]
		if !ok {
			continue
		}
		joint[classSafe] += m.logLikely[classSafe][i]
		joint[classScam] += m.logLikely[classScam][i]
	}
	// Softmax over the two classes, shifted for stability.
	hi := math.Max(joint[classSafe], joint[classScam])
	ps := math.Exp(joint[classSafe] - hi)
	pc := math.Exp(joint[classScam] - hi)
	return pc / (ps + pc)
}

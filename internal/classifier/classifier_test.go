package classifier

import (
	"strings"
	"sync"
	"testing"
)

func TestClassify_EmptyIsSafe(t *testing.T) {
	c := New()
	for _, in := range []string{"", "   ", "\x00\x01", strings.Repeat("?", 5000)} {
		v := c.Classify(in)
		if v.IsScam || v.Category != CategorySafe || v.RuleScore != 0 {
			t.Fatalf("Classify(%q) = %+v; want safe", in, v)
		}
		if v.Explanation != SafeExplanation {
			t.Fatalf("Classify(%q).Explanation = %q", in, v.Explanation)
		}
	}
	if v := c.Classify(""); v.Confidence != 20 { // prior 0.5 -> 0.4*50
		t.Fatalf("empty confidence = %d; want 20", v.Confidence)
	}
}

func TestClassify_FullScamMessage(t *testing.T) {
	c := New()
	msg := "URGENT: Your SBI bank account is blocked. Verify KYC immediately at http://sbi-kyc.xyz/login or face arrest"
	v := c.Classify(msg)

	if v.RuleScore != 100 {
		t.Fatalf("RuleScore = %d; want 100 (clamped)", v.RuleScore)
	}
	if !v.IsScam || v.Confidence < 60 {
		t.Fatalf("expected scam with confidence >= 60, got %+v", v)
	}
	if v.Category != CategoryFinancialImpersonation {
		t.Fatalf("Category = %q", v.Category)
	}
	for _, want := range []string{
		"Urgency language detected: urgent, immediately",
		"Financial keywords found: bank, account, kyc",
		"Possible impersonation: sbi",
		"Threatening language: arrest",
		"Suspicious link(s) detected: http://sbi-kyc.xyz/login",
	} {
		if !strings.Contains(v.Explanation, want) {
			t.Fatalf("explanation %q missing %q", v.Explanation, want)
		}
	}
	if !strings.Contains(v.Explanation, " | ") {
		t.Fatalf("reasons should be joined with ' | ': %q", v.Explanation)
	}
}

func TestClassify_CategoryPrecedence(t *testing.T) {
	c := New()
	cases := []struct {
		text string
		want string
	}{
		{"please act now", CategorySocialEngineering},
		{"see www.example.com", CategorySuspiciousLink},
		{"hurry see www.example.com", CategoryPhishing},
		{"you will get a penalty", CategoryThreatScam},
		{"the police called", CategoryImpersonation},
		{"send the payment", CategoryFinancialScam},
		{"police want the payment", CategoryFinancialImpersonation},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.text).Category; got != tc.want {
			t.Fatalf("Classify(%q).Category = %q; want %q", tc.text, got, tc.want)
		}
	}
}

func TestClassify_FamilyCaps(t *testing.T) {
	c := New()
	cases := []struct {
		text string
		want int
	}{
		{"urgent", 12},
		{"urgent hurry asap deadline", 25},
		{"bank", 15},
		{"bank loan emi refund", 30},
		{"police", 18},
		{"police court", 25},
		{"jail", 15},
		{"jail fine", 20},
		{"bit.ly/abc", 20},
		{"bit.ly/abc www.x.com http://y.z", 20},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.text).RuleScore; got != tc.want {
			t.Fatalf("RuleScore(%q) = %d; want %d", tc.text, got, tc.want)
		}
	}
}

func TestClassify_SingleWordsMatchWholeTokens(t *testing.T) {
	c := New()
	if v := c.Classify("pinnacle bankruptcy finest"); v.RuleScore != 0 {
		t.Fatalf("substring of a word must not hit: %+v", v)
	}
	if v := c.Classify("your BANK, account."); v.RuleScore != 30 {
		t.Fatalf("punctuation must not hide tokens, got %d", v.RuleScore)
	}
}

func TestClassify_UnicodeFolding(t *testing.T) {
	c := New()
	if v := c.Classify("ＵＲＧＥＮＴ"); v.RuleScore != 12 {
		t.Fatalf("full-width keyword should fold, got %+v", v)
	}
}

func TestClassify_ReasonListsAtMostThreeHits(t *testing.T) {
	c := New()
	v := c.Classify("bank account transfer upi otp")
	if !strings.Contains(v.Explanation, "Financial keywords found: bank, account, transfer") {
		t.Fatalf("unexpected explanation: %q", v.Explanation)
	}
	if strings.Contains(v.Explanation, "upi") {
		t.Fatalf("only three hits should be listed: %q", v.Explanation)
	}
}

func TestModel_LearnsCorpus(t *testing.T) {
	c := New()
	scam := c.ScamProbability("Your bank account is locked due to suspicious activity.")
	safe := c.ScamProbability("Hey, are we still meeting for lunch today?")
	if scam <= 0.5 || safe >= 0.5 {
		t.Fatalf("model did not separate corpus: scam=%.3f safe=%.3f", scam, safe)
	}
	if p := c.ScamProbability("zzqx unseen tokens only"); p != 0.5 {
		t.Fatalf("out-of-vocabulary text should score the prior, got %.3f", p)
	}

	v := c.Classify("Your bank account is locked due to suspicious activity.")
	if !strings.Contains(v.Explanation, "ML model detected scam pattern (") {
		t.Fatalf("expected model reason, got %q", v.Explanation)
	}
	if v.ModelConfidence <= 50 {
		t.Fatalf("ModelConfidence = %d", v.ModelConfidence)
	}
}

func TestClassify_Options(t *testing.T) {
	strict := New(WithThreshold(101))
	if v := strict.Classify("URGENT bank police jail http://x.tk/a"); v.IsScam {
		t.Fatalf("threshold above 100 can never fire")
	}
	rulesOnly := New(WithWeights(1, 0))
	if v := rulesOnly.Classify("urgent"); v.Confidence != 12 {
		t.Fatalf("rules-only confidence = %d; want 12", v.Confidence)
	}
	empty := New(WithCorpus(nil, nil))
	if v := empty.Classify("bank"); v.RuleScore != 15 {
		t.Fatalf("empty corpus must still run rules: %+v", v)
	}
}

func TestClassify_ConcurrentUse(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = c.Classify("Verify your KYC at www.bank-update.top/x immediately")
			}
		}()
	}
	wg.Wait()
}

func TestFingerprint_NormalisesPresentation(t *testing.T) {
	a := Fingerprint("Your  Account is   BLOCKED")
	b := Fingerprint(" your account is blocked ")
	if a != b {
		t.Fatalf("fingerprints differ: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == Fingerprint("your account is open") {
		t.Fatalf("different text must not collide")
	}
}

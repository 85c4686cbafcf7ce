package orchestration

import "testing"

func TestClassifyPicksKeywordEmotion(t *testing.T) {
	testCases := []struct {
		text string
		want Emotion
	}{
		{"I'm so excited about this!", EmotionExcited},
		{"I've been feeling pretty sad and tired lately", EmotionGentle},
		{"we need to talk about the project deadline", EmotionProfessional},
		{"hey, what's up", EmotionFriendly},
		{"the package arrived yesterday", EmotionNeutral},
	}

	for _, testCase := range testCases {
		if _, emotion := Classify(testCase.text); emotion != testCase.want {
			t.Errorf("Classify(%q) emotion = %q, want %q", testCase.text, emotion, testCase.want)
		}
	}
}

func TestClassifyPicksKeywordIntent(t *testing.T) {
	testCases := []struct {
		text string
		want Intent
	}{
		{"hello there", IntentGreeting},
		{"good morning everyone", IntentGreeting},
		{"ok bye, see you tomorrow", IntentGoodbye},
		{"thank you so much", IntentThanks},
		{"what time is it?", IntentQuestion},
		{"is that true?", IntentQuestion},
		{"I need some help with this", IntentHelp},
		{"the weather has been nice lately", IntentConversation},
	}

	for _, testCase := range testCases {
		if intent, _ := Classify(testCase.text); intent != testCase.want {
			t.Errorf("Classify(%q) intent = %q, want %q", testCase.text, intent, testCase.want)
		}
	}
}

func TestClassifyEmotionPrecedenceFavorsExcited(t *testing.T) {
	// "hi" alone would read as friendly; the excited keyword outranks it.
	if _, emotion := Classify("hi, this is amazing"); emotion != EmotionExcited {
		t.Fatalf("expected excited to outrank friendly, got %q", emotion)
	}
}

func TestClassifyIntentPrecedenceFavorsGreeting(t *testing.T) {
	// A question mark alone would read as a question; the greeting outranks it.
	if intent, _ := Classify("hey, how are you?"); intent != IntentGreeting {
		t.Fatalf("expected greeting to outrank question, got %q", intent)
	}
}

func TestClassifyMatchesWholeWordsOnly(t *testing.T) {
	// "this" contains "hi" as a substring; it must not count as a greeting.
	if intent, _ := Classify("this weather is dreary"); intent != IntentConversation {
		t.Fatalf("expected conversation for a substring-only match, got %q", intent)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	firstIntent, firstEmotion := Classify("I'm worried about the meeting")
	for range 10 {
		intent, emotion := Classify("I'm worried about the meeting")
		if intent != firstIntent || emotion != firstEmotion {
			t.Fatalf("classification changed between runs: %q/%q vs %q/%q",
				intent, emotion, firstIntent, firstEmotion)
		}
	}
}

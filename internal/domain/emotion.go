package domain

// Emotion is a label from the emotion classifier's label space.
type Emotion string

const (
	EmotionAnger    Emotion = "anger"
	EmotionDisgust  Emotion = "disgust"
	EmotionFear     Emotion = "fear"
	EmotionJoy      Emotion = "joy"
	EmotionNeutral  Emotion = "neutral"
	EmotionSadness  Emotion = "sadness"
	EmotionSurprise Emotion = "surprise"
)

// NeutralEmotion is used wherever an emotion is missing.
const NeutralEmotion = EmotionNeutral

func (e Emotion) IsValid() bool {
	switch e {
	case EmotionAnger, EmotionDisgust, EmotionFear, EmotionJoy,
		EmotionNeutral, EmotionSadness, EmotionSurprise:
		return true
	}
	return false
}

// OrDefault returns e, or NeutralEmotion when e is empty.
func (e Emotion) OrDefault() Emotion {
	if e == "" {
		return NeutralEmotion
	}
	return e
}

// EmotionScore is one label with its classifier score.
type EmotionScore struct {
	Label Emotion `json:"label"`
	Score float64 `json:"score"`
}

// Sentiment is the coarse mood returned by structured extraction.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

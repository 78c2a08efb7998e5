package util

// Envelope is the JSON object every endpoint responds with.
type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"error": message}
}

func Success() Envelope {
	return Envelope{"success": true}
}

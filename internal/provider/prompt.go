// Package provider holds the language-model prompts and reply parsing shared
// by every LLM backend.
package provider

import "fmt"

// CleanPrompt asks the model to tidy one transcript chunk.
func CleanPrompt(chunk string) string {
	return fmt.Sprintf(`You are a transcription cleaner.
Clean up this voice transcript to improve clarity and grammar, and remove filler words.
Keep the speaker's meaning. Do not add information.

Input: "%s"

Output ONLY the cleaned text, no quotes, no explanations.`, chunk)
}

// ExtractPrompt asks the model for the structured standup summary.
func ExtractPrompt(transcript string) string {
	return fmt.Sprintf(`You are a smart assistant. Extract structured information from the following transcript of a daily standup voice update.

Transcript:
"""
%s
"""

Output ONLY a valid JSON object matching this exact schema:
{
  "summary": "<one or two sentences>",
  "blockers": ["<blocker>"],
  "progress": ["<completed item>"],
  "next_steps": ["<planned item>"],
  "sentiment": "<positive|neutral|negative>"
}

Rules:
- Use empty lists when the speaker mentions nothing for a field
- Output ONLY the JSON, no markdown, no explanations`, transcript)
}

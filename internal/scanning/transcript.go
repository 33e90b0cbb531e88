package scanning

import "strings"

// transcriptionPrompt is shared by the vision recognizers
const transcriptionPrompt = `You are an OCR engine. Transcribe all text printed on this receipt or invoice exactly as it appears.

Rules:
- Keep the original line breaks and the top-to-bottom reading order
- Keep numbers, decimal commas, dots, currency symbols and dates exactly as printed (for example "1.234,56 €" or "15.03.2024")
- Keep German umlauts and ß
- Put columns that share a printed line on the same output line, separated by spaces
- Do not translate, summarise, correct, reformat or explain anything
- Do not use markdown or code blocks
- If there is no readable text, return nothing`

// cleanTranscript strips markdown fences a model may add despite the prompt
func cleanTranscript(text string) (string, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if i := strings.Index(text, "\n"); i >= 0 {
			text = text[i+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
	}
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}

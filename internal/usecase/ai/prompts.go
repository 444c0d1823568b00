package ai

import "fmt"

const summaryPrompt = "Summarize the following transcript into bullet points, capturing the key information:\n\n%s"

const meetingPrompt = `
You are an intelligent assistant. From the following meeting transcript, identify:

1. "meetingsDiscussed": true/false - did the speaker mention or schedule any future meetings, collaborations, or follow-ups?
2. "phrases": list of exact phrases that indicate meetings or collaboration plans.
3. "participants": people involved in those plans, if known.
4. "dateTime": If a date and/or time was discussed (e.g., "next Tuesday at 3 PM"), convert it into a full datetime string (ISO 8601 or plain English). If not mentioned, return null.

Transcript:
"""
%s
"""
Return a valid JSON object with exactly these four fields and nothing else.
`

const questionPrompt = "Based on the following transcript, answer this question: %q\n\nTranscript:\n%s"

// BuildSummaryPrompt embeds the transcript verbatim in the summary instruction
func BuildSummaryPrompt(transcript string) string {
	return fmt.Sprintf(summaryPrompt, transcript)
}

// BuildMeetingPrompt embeds the transcript verbatim in the extraction instruction
func BuildMeetingPrompt(transcript string) string {
	return fmt.Sprintf(meetingPrompt, transcript)
}

// BuildQuestionPrompt asks a question about a transcript
func BuildQuestionPrompt(transcript, question string) string {
	return fmt.Sprintf(questionPrompt, question, transcript)
}

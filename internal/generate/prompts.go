package generate

import "fmt"

// stepsSystemPrompt fixes the answer format for step generation.
const stepsSystemPrompt = `You write short lessons for school students.
Return ONLY JSON with a top-level object: {"steps": string[]}, no extra text.
Each string in the "steps" array must start with its number label like "Step 1.", "Step 2.", etc.
Keep each step to one or two sentences.`

// stepsUserPrompt asks for the plan of one lesson.
func stepsUserPrompt(title, topic, description, level string) string {
	return fmt.Sprintf(
		"Lesson title: %s\nCreate a step-by-step plan to solve a problem relating to %s using %s. "+
			"Write it so a %s student can understand it.",
		title, topic, description, level,
	)
}

// ImagePrompt turns a step of a lesson on topic into an illustration
// request.
func ImagePrompt(topic, step string) string {
	return fmt.Sprintf(
		"A clear, friendly classroom illustration for a lesson on %s. No text in the image. Show: %s",
		topic, step,
	)
}

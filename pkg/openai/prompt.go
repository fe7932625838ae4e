package openai

// JSON field names the extraction prompt instructs the model to emit. The
// extraction parser looks these up on the other side of the wire.
const (
	OutputHoursKey       = "hours"
	OutputTasksKey       = "tasks"
	OutputDescriptionKey = "description"
)

// SummarizeSystemPrompt is the fixed system instruction for turning a work-log
// narration into a structured accounting entry. The model must answer with the
// JSON object alone, or the empty object when nothing meaningful was found.
// A conversational fallback reply is never acceptable output.
const SummarizeSystemPrompt = `
You are a producer of JSON objects representing task completion accounting entries.
The user will send you a transcript of a voice note outlining contributions from a team member, to be summarized and presented as a concise, clear bullet point list.

Please extract from it the following information:
1. ` + "`N`" + `, the number of hours worked. If there is no reference to time spent working, N should be null. Otherwise, try to infer the amount of hours.
2. ` + "`key_point_1`, `key_point_2`, `...`" + `, the summarized list of contributions described by the team member. Be sure to include the project(s) that the contribution comes under, as well as names of any collaborators mentioned.

Format output as a well-formed JSON object per the following schema:

{
    "` + OutputHoursKey + `": N,
    "` + OutputTasksKey + `": [
        {"` + OutputDescriptionKey + `": key_point_1 },
        {"` + OutputDescriptionKey + `": key_point_2 },
        ...
    ]
}

If you weren't able to identify any meaningful tasks to summarize, DO NOT output a default placeholder reply prompting the user to give you input. Instead, just return the empty JSON object, ` + "`{}`" + `.
`

package usecase

import (
	"fmt"

	"energy-accounting-bot/internal/entry"
	"energy-accounting-bot/internal/model"
)

// User-facing prompt texts for each step of the flow.
const (
	msgWelcome = "Hello voyager! Welcome to your energy accounting assistant. " +
		"Send /cancel at any time to stop talking to me. " +
		"Just verifying your user data for a second..."

	msgNoEligibleGroups = "It appears you haven't yet been added into any of the reporting groups. " +
		"Please come back after that has happened! Reach out to a crew member for help here. Later!"

	msgTellMeWhatYouDid = "Whenever you're ready, tell me via voice or text what you did today and how much time it took."

	msgChooseGroup            = "I see you are in multiple reporting groups. Which will you be adding an energy accounting entry for?"
	msgChooseGroupPlaceholder = "Choose which group to add an entry for..."
	msgUnrecognizedSelection  = "Sorry, I didn't recognize that selection. Please select from one of the groups presented in the keyboard."

	msgEmptyMessage = "Did you mean to send that? I can't do much with an empty message."

	msgSummarizeFailed = "I wasn't able to summarize your input. Could you try again " +
		"(or send the same message again, if you don't wish to change anything about it) please?"

	msgNoMeaningfulTasks = "I couldn't identify any meaningful tasks to summarize. " +
		"Could you tell me again, please? It might help me if you rephrase a little bit."

	msgMissingHours = `Don't think you said anything about how many hours you spent there. How many was that?
Please just input the (positive!) number and nothing else.

That is, DO:
3
15.5
18.7

NOT:
3 hours
-1hr
8 hours and 5 minutes`

	msgInvalidHours = `That didn't make sense to me.

Please input the hour count and nothing else (e.g. 3, 15.5, 18.7 would work, "3 hours", "-15", or "8 hours and 5 minutes" would not).`

	msgConfirmPlaceholder = "Is this summary accurate?"
	msgAnswerYesOrNo      = "Please answer Yes or No."

	msgEditPrompt = `Oops. Could you please tell me what the record should state then?
You can paste in the following to start (please follow the format!):`

	msgEditTemplateMismatch = `I don't really understand this. Please make sure your edit follows the following format:
*Contributions*
- <<Task description>>
- <<Task description>>
- <<Task description>>
<<... any number of hyphen-delimited task descriptions>>

*Hours*: <<Number, possibly with a decimal place>> hours`

	msgEntryRecorded = "Energy accounted. Thank you for your work!"

	msgPersistFailed = "Something went wrong on my end and your entry has NOT been recorded. " +
		"Please try answering Yes again in a moment, or /cancel to give up."

	msgBroadcastFailed = "Your entry was saved, but I couldn't announce it in the group channel."

	msgGoodbye = "Bye! I hope we can talk again some day."

	msgStartFirst = "Hi %s, please /start me first. Thank you!"

	msgLostTrack = "I seem to have lost track of our conversation. Let's start over -- please /start me again."
)

// confirmationReplies renders the summary and asks for a Yes/No.
func confirmationReplies(draft *model.DraftEntry) []entry.Reply {
	summary := fmt.Sprintf("Here's what I got:\n\n%s\n\nWas that right?", draft.Present())
	reply := keyboardMarkdownReply(summary, []string{"Yes", "No"}, msgConfirmPlaceholder)
	return []entry.Reply{reply}
}

func keyboardMarkdownReply(text string, choices []string, placeholder string) entry.Reply {
	rows := make([][]string, 0, len(choices))
	for _, choice := range choices {
		rows = append(rows, []string{choice})
	}
	return entry.Reply{Text: text, Markdown: true, Keyboard: rows, Placeholder: placeholder}
}

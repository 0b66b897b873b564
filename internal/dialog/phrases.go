package dialog

import (
	"math/rand"
	"strings"
)

// Canned phrase pools. The pools themselves are immutable; random selection
// always works on a per-call copy so repeated greetings can never deplete
// the master list.

var greetingPool = []string{
	"Hello!",
	"Hi there!",
	"Good day!",
	"Hello, nice to see you.",
}

var goodbyePool = []string{
	"Goodbye!",
	"See you later.",
	"Bye, come back any time.",
}

var thanksPool = []string{
	"You're welcome!",
	"No problem at all.",
	"Any time!",
}

var thinkingPool = []string{
	"Let me have a look...",
	"One moment...",
	"Checking the forecast...",
}

var waitingPool = []string{
	"Digging through the archive...",
	"Crunching the historical numbers...",
	"This one takes a second...",
}

var examplePool = []string{
	"What's the weather like in Exeter?",
	"Is it hotter in London than usual?",
	"Was it colder in Cardiff than last month?",
	"When was the hottest day in Glasgow last year?",
	"When is the warmest week of the year in Leeds?",
	"What was the average temperature in York last june?",
	"Is it warmer in Bristol than last week?",
}

const infoPhrase = "I can tell you about the weather forecast and how it " +
	"compares to the historical record for a place."

const exampleIntroduction = "You could ask me things like:"

const unknownPhrase = "Sorry, I didn't understand that. Try asking about the weather somewhere."

const misunderstoodPhrase = "Sorry, I didn't quite get that. Could you rephrase it?"

const errorPhrase = "Sorry, something went wrong looking that up. Please try again later."

const wherePrompt = "Where?"

// pick returns a random element of pool.
func pick(r *rand.Rand, pool []string) string {
	return pool[r.Intn(len(pool))]
}

// sampleExamples draws n distinct examples without replacement from a copy
// of the pool and formats them as a bulleted list under the introduction.
func sampleExamples(r *rand.Rand, n int) string {
	pool := make([]string, len(examplePool))
	copy(pool, examplePool)

	var b strings.Builder
	b.WriteString(exampleIntroduction)
	b.WriteString("\n")
	for i := 0; i < n && len(pool) > 0; i++ {
		j := r.Intn(len(pool))
		b.WriteString(" * ")
		b.WriteString(pool[j])
		b.WriteString("\n")
		pool = append(pool[:j], pool[j+1:]...)
	}
	return b.String()
}

package story

import "fmt"

// suspectCount is fixed. The game UI and the accusation check both rely on every case
// having exactly four suspects.
const suspectCount = 4

// difficultyForLevel computes how many key clues and red herrings to request from the
// generator. Higher levels get fewer genuine clues and more red herrings. The counts
// are requested of the generator, not enforced on its output.
func difficultyForLevel(level int64) (keyClueCount, redHerringCount int64) {
	keyClueCount = 3 - level/5
	if keyClueCount < 1 {
		keyClueCount = 1
	}
	redHerringCount = 2 + level/5
	return keyClueCount, redHerringCount
}

const promptTemplate = `You are a mystery story generator. Create a random detective story for level %d with:
- A setting (e.g., mansion, park, office).
- A description of what crime happened.
- A victim and their backstory.
- %d suspects, each with motives and alibis.
- %d key clues.
- %d red herrings.
- One culprit.
- An explanation of why the culprit committed the crime.
- Make it a Medium.

Provide the output in JSON format:
{
    "setting": "",
    "description": "",
    "victim": "",
    "suspects": {
        "<Suspect 1 Full Name>": "",
        "<Suspect 2 Full Name>": "",
        "<Suspect 3 Full Name>": "",
        "<Suspect 4 Full Name>": ""
    },
    "clues": [],
    "red_herrings": [],
    "culprit": "",
    "explanation": ""
}

Only output the JSON part.
Only output the first and last name for the culprit, no prefixes such as Dr or Mr or Mrs or Ms.
Don't explain why they are red herrings.`

// Prompt renders the generation prompt for the given difficulty level.
func Prompt(level int64) string {
	keyClueCount, redHerringCount := difficultyForLevel(level)
	return fmt.Sprintf(promptTemplate, level, suspectCount, keyClueCount, redHerringCount)
}

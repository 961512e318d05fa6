package web

import "golang.org/x/text/language"

var (
	danish  = language.MustParseBase("da")
	english = language.MustParseBase("en")
)

// uiText holds the fixed strings of the pages, keyed by language.
var uiText = map[language.Base]map[string]string{
	danish: {
		"site":                     "Praktikblog",
		"entries":                  "Indlæg",
		"new":                      "Nyt indlæg",
		"goals":                    "Læringsmål",
		"signin":                   "Log ind",
		"signout":                  "Log ud",
		"password":                 "Adgangskode",
		"sort":                     "Sortér",
		"sort.newest":              "Nyeste først",
		"sort.oldest":              "Ældste først",
		"sort.title":               "Titel",
		"week":                     "Uge",
		"title":                    "Titel",
		"content":                  "Indhold",
		"date":                     "Dato",
		"mood":                     "Sindstilstand",
		"type":                     "Type",
		"edit":                     "Rediger",
		"save":                     "Gem",
		"cancel":                   "Annuller",
		"delete":                   "Slet",
		"delete.confirm":           "Er du sikker på, at du vil slette dette indlæg?",
		"delete.yes":               "Ja, slet",
		"add.reflection":           "Tilføj refleksion",
		"add.spontaneous":          "Tilføj spontan tanke",
		"missing.reflection":       "Der er ikke skrevet en refleksion endnu.",
		"missing.spontaneous":      "Der er ikke skrevet en spontan tanke endnu.",
		"back":                     "Tilbage",
		"empty":                    "Ingen indlæg endnu.",
		"flash.created":            "Indlæg oprettet",
		"flash.saved":              "Indlæg gemt",
		"flash.deleted":            "Indlæg slettet",
		"flash.signedin":           "Du er logget ind",
		"flash.signedout":          "Du er logget ud",
		"err.auth":                 "Du skal være logget ind",
		"err.auth.add.reflection":  "Du skal være logget ind for at tilføje en refleksion.",
		"err.auth.add.spontaneous": "Du skal være logget ind for at tilføje en spontan tanke.",
		"err.busy":                 "Ændringen gemmes stadig",
		"err.notfound":             "Indlægget findes ikke",
		"err.transition":           "Handlingen er ikke mulig lige nu",
		"err.store":                "Der opstod en fejl. Prøv igen",
		"err.password":             "Forkert adgangskode",
		"err.title":                "Titlen må ikke være tom",
		"err.secondary":            "Teksten må ikke være tom",
		"err.date":                 "Ugyldig dato",
		"err.invalid":              "Ugyldigt input",
		"err.unknownerror":         "Ukendt fejl",
	},
	english: {
		"site":                     "Internship journal",
		"entries":                  "Entries",
		"new":                      "New entry",
		"goals":                    "Learning goals",
		"signin":                   "Sign in",
		"signout":                  "Sign out",
		"password":                 "Password",
		"sort":                     "Sort",
		"sort.newest":              "Newest first",
		"sort.oldest":              "Oldest first",
		"sort.title":               "Title",
		"week":                     "Week",
		"title":                    "Title",
		"content":                  "Content",
		"date":                     "Date",
		"mood":                     "State of mind",
		"type":                     "Type",
		"edit":                     "Edit",
		"save":                     "Save",
		"cancel":                   "Cancel",
		"delete":                   "Delete",
		"delete.confirm":           "Are you sure you want to delete this entry?",
		"delete.yes":               "Yes, delete",
		"add.reflection":           "Add reflection",
		"add.spontaneous":          "Add spontaneous thought",
		"missing.reflection":       "No reflection has been written yet.",
		"missing.spontaneous":      "No spontaneous thought has been written yet.",
		"back":                     "Back",
		"empty":                    "No entries yet.",
		"flash.created":            "Entry created",
		"flash.saved":              "Entry saved",
		"flash.deleted":            "Entry deleted",
		"flash.signedin":           "You are signed in",
		"flash.signedout":          "You are signed out",
		"err.auth":                 "You must be signed in",
		"err.auth.add.reflection":  "You must be signed in to add a reflection.",
		"err.auth.add.spontaneous": "You must be signed in to add a spontaneous thought.",
		"err.busy":                 "The change is still being saved",
		"err.notfound":             "Entry not found",
		"err.transition":           "That action is not available right now",
		"err.store":                "Something went wrong. Please try again",
		"err.password":             "Wrong password",
		"err.title":                "Title must not be empty",
		"err.secondary":            "Text must not be empty",
		"err.date":                 "Invalid date",
		"err.invalid":              "Invalid input",
		"err.unknownerror":         "Unknown error",
	},
}

// translate looks up key for lang, falling back to English and then to key.
func translate(lang language.Tag, key string) string {
	b, _ := lang.Base()
	if s, ok := uiText[b][key]; ok {
		return s
	}
	if s, ok := uiText[english][key]; ok {
		return s
	}
	return key
}

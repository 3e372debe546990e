package main

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const unnamedKey = "Unnamed Window"

func init() {
	message.SetString(language.German, unnamedKey, "Unbenanntes Fenster")
	message.SetString(language.French, unnamedKey, "Fenêtre sans nom")
	message.SetString(language.Spanish, unnamedKey, "Ventana sin nombre")
	message.SetString(language.Italian, unnamedKey, "Finestra senza nome")
}

// unnamedTitle is the title shown for windows without one, in the
// configured language.
func unnamedTitle(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag).Sprintf(unnamedKey)
}

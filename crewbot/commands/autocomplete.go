package commands

import (
	"encoding/json"
	"strings"

	"github.com/disgoorg/disgo/discord"

	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/services"
	"github.com/groundcrew/crewbot/crewbot/utils"
)

func focusedString(o discord.AutocompleteOption) string {
	if o.Value == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(o.Value, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// AirportChoices turns airport suggestions into autocomplete choices. Free
// text is allowed, so a query without an exact code match is offered
// as typed first.
func AirportChoices(airports *services.Airports, query string) []discord.AutocompleteChoice {
	suggestions := airports.Suggest(query, config.MaxAutocomplete)
	choices := make([]discord.AutocompleteChoice, 0, min(len(suggestions)+1, config.MaxAutocomplete))

	if query != "" {
		exact := false
		for _, a := range suggestions {
			if strings.EqualFold(a.Code, query) {
				exact = true
				break
			}
		}
		if !exact {
			choices = append(choices, discord.AutocompleteChoiceString{
				Name:  utils.Truncate(query, 100),
				Value: utils.Truncate(query, 100),
			})
		}
	}

	for _, a := range suggestions {
		if len(choices) == config.MaxAutocomplete {
			break
		}
		choices = append(choices, discord.AutocompleteChoiceString{
			Name:  a.Label(),
			Value: a.Code,
		})
	}
	return choices
}

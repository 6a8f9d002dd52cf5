package format

import (
	"golang.org/x/text/language"

	bills "billed-app/internal/bills/domain"
)

// Locale holds the display vocabulary for a formatter.
type Locale struct {
	Tag          language.Tag
	ShortMonths  [12]string
	StatusLabels map[bills.Status]string
}

// French returns the locale used by the expense report front end.
func French() Locale {
	return Locale{
		Tag: language.French,
		ShortMonths: [12]string{
			"janv.", "févr.", "mars", "avr.", "mai", "juin",
			"juil.", "août", "sept.", "oct.", "nov.", "déc.",
		},
		StatusLabels: map[bills.Status]string{
			bills.StatusPending:  "En attente",
			bills.StatusAccepted: "Accepté",
			bills.StatusRefused:  "Refusé",
		},
	}
}

// WithStatusLabels returns a copy of l with the given labels overriding its own.
func (l Locale) WithStatusLabels(overrides map[bills.Status]string) Locale {
	labels := make(map[bills.Status]string, len(l.StatusLabels)+len(overrides))
	for status, label := range l.StatusLabels {
		labels[status] = label
	}
	for status, label := range overrides {
		if label != "" {
			labels[status] = label
		}
	}
	l.StatusLabels = labels
	return l
}

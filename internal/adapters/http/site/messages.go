package site

import (
	"fmt"

	service "github.com/okian/recupero/internal/app"
)

// messages is the text of one dashboard locale.
type messages struct {
	Lang         string
	Title        string
	Label        string
	Button       string
	Busy         string
	EnterName    string
	NotFound     string
	TileTotal    string
	TileResolved string
	Details      string
	Failures     map[service.Kind]string
	Generic      string
}

var catalog = map[string]messages{
	"es": {
		Lang:         "es",
		Title:        "Análisis Estudiantil",
		Label:        "Nombre del estudiante",
		Button:       "Analizar",
		Busy:         "Analizando...",
		EnterName:    "Ingrese el nombre del estudiante",
		NotFound:     "No se encontraron registros",
		TileTotal:    "Total Materias",
		TileResolved: "Recuperaciones Exitosas",
		Details:      "Ver datos completos",
		Failures: map[service.Kind]string{
			service.KindConnection: "Error de conexión con la base de datos.",
			service.KindFetch:      "Error al obtener datos",
			service.KindSchema:     "La hoja no tiene las columnas esperadas",
			service.KindGeneration: "Error en el análisis",
		},
		Generic: "Ocurrió un error inesperado",
	},
	"en": {
		Lang:         "en",
		Title:        "Student Analysis",
		Label:        "Student name",
		Button:       "Analyze",
		Busy:         "Analyzing...",
		EnterName:    "Enter the student's name",
		NotFound:     "No records found",
		TileTotal:    "Total subjects",
		TileResolved: "Successful recoveries",
		Details:      "View full data",
		Failures: map[service.Kind]string{
			service.KindConnection: "Database connection error.",
			service.KindFetch:      "Error fetching data",
			service.KindSchema:     "The worksheet does not have the expected columns",
			service.KindGeneration: "Analysis error",
		},
		Generic: "Unexpected error",
	},
}

func lookupMessages(locale string) (messages, error) {
	if locale == "" {
		locale = "es"
	}
	m, ok := catalog[locale]
	if !ok {
		return messages{}, fmt.Errorf("no dashboard messages for locale %q", locale)
	}
	return m, nil
}

// failure returns the user-facing text for a failure kind.
func (m messages) failure(kind service.Kind) string {
	if s, ok := m.Failures[kind]; ok {
		return s
	}
	return m.Generic
}

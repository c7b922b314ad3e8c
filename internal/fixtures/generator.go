package fixtures

import (
	"math/rand/v2"
	"strings"
)

var (
	firstNames = []string{
		"Ana", "Luis", "María", "José", "Lucía", "Mateo", "Valentina", "Santiago",
		"Camila", "Joaquín", "Martina", "Tomás", "Sofía", "Álvaro", "Julieta", "Benjamín",
	}
	lastNames = []string{
		"Gómez", "Pérez", "Rodríguez", "Fernández", "López", "Díaz", "Martínez", "Sánchez",
		"Romero", "Álvarez", "Torres", "Ruiz", "Suárez", "Castro", "Núñez", "Ortiz",
	}
	subjects = []string{
		"Matemática", "Lengua", "Historia", "Geografía", "Física", "Química",
		"Biología", "Inglés", "Educación Cívica", "Tecnología",
	}
	offEnum = []string{"N/A", "Pendiente", "si", ""}
)

// Outcome weights out of 10.
const (
	outcomeBuckets = 10
	resolvedUpTo   = 5 // 0..5 -> Si
	pendingUpTo    = 8 // 6..8 -> No, 9 -> off-enum
	minSubjects    = 2
)

// Generate builds rows for cfg.Students distinct students. The same seed
// always yields the same rows.
func Generate(cfg *Config, stats *Stats) []Row {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	seen := make(map[string]bool, cfg.Students)
	var rows []Row
	for len(seen) < cfg.Students && len(seen) < len(firstNames)*len(lastNames) {
		name := firstNames[rng.IntN(len(firstNames))] + " " + lastNames[rng.IntN(len(lastNames))]
		if seen[name] {
			continue
		}
		seen[name] = true

		n := minSubjects + rng.IntN(len(subjects)-minSubjects+1)
		for _, i := range rng.Perm(len(subjects))[:n] {
			row := Row{Student: name, Subject: subjects[i], Recovered: outcome(rng)}
			switch row.Recovered {
			case "Si":
				stats.Resolved++
			case "No":
				stats.Pending++
			default:
				stats.OffEnum++
			}
			rows = append(rows, row)
		}
	}

	stats.Students = len(seen)
	stats.Rows = len(rows)
	return rows
}

func outcome(rng *rand.Rand) string {
	switch b := rng.IntN(outcomeBuckets); {
	case b <= resolvedUpTo:
		return "Si"
	case b <= pendingUpTo:
		return "No"
	default:
		return offEnum[rng.IntN(len(offEnum))]
	}
}

// Students returns the distinct student names in first-seen order.
func Students(rows []Row) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if !seen[r.Student] {
			seen[r.Student] = true
			out = append(out, r.Student)
		}
	}
	return out
}

// FirstName returns the leading word of a full name, a realistic partial
// query.
func FirstName(name string) string {
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

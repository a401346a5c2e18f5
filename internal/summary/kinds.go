package summary

import (
	"fmt"
	"strings"
)

// Kind is one analysis angle. Label is what gets stored with the summary.
type Kind struct {
	Key      string
	Label    string
	template string
}

var kinds = []Kind{
	{"general", "Resumen General",
		"Por favor, genera un resumen ejecutivo completo de las siguientes %d sesiones de coaching. Incluye los temas principales discutidos, conclusiones importantes y el contexto general del trabajo de coaching."},
	{"progress", "Análisis de Progreso",
		"Analiza el progreso observado a través de estas %d sesiones de coaching. Identifica mejoras, cambios positivos, hitos alcanzados y la evolución del coachee a lo largo del tiempo."},
	{"patterns", "Patrones y Tendencias",
		"Identifica patrones recurrentes, tendencias y temas comunes en estas %d sesiones de coaching. Analiza qué aspectos aparecen con frecuencia y qué pueden indicar."},
	{"goals", "Objetivos y Logros",
		"Resume los objetivos establecidos y los logros alcanzados según estas %d sesiones de coaching. Evalúa el cumplimiento de metas y destaca los éxitos principales."},
	{"improvement", "Áreas de Mejora",
		"Identifica las áreas de mejora, desafíos pendientes y oportunidades de desarrollo observadas en estas %d sesiones de coaching. Proporciona un análisis constructivo."},
	{"recommendations", "Recomendaciones",
		"Basándote en estas %d sesiones de coaching, proporciona recomendaciones específicas y accionables para las próximas sesiones. Incluye sugerencias de enfoques, temas a abordar y estrategias."},
}

func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// LookupKind finds a kind by CLI key or stored label, ignoring case.
func LookupKind(s string) (Kind, bool) {
	s = strings.TrimSpace(s)
	for _, k := range kinds {
		if strings.EqualFold(s, k.Key) || strings.EqualFold(s, k.Label) {
			return k, true
		}
	}
	return Kind{}, false
}

// Prompt prefixes doc with the kind's instructions for n sessions.
func (k Kind) Prompt(n int, doc string) string {
	return fmt.Sprintf(k.template, n) + "\n\n" + doc
}

// ConsultPrompt is the default request for an ad-hoc look at one
// session's notes.
func ConsultPrompt(notes string) string {
	return "Analiza las siguientes notas de sesión de coaching:\n\n" + strings.TrimSpace(notes) +
		"\n\nPor favor, proporciona un resumen de los puntos clave y sugerencias para la próxima sesión."
}

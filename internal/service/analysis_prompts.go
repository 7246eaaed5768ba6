package service

import (
	"fmt"
	"regexp"
	"strings"

	"deepmirror/internal/domain"
)

const analysisSystemPrompt = `
Eres un psicologo clinico y especialista en analisis de personalidad.
Analiza la personalidad del usuario segun el modelo Big Five.
No te limites a enumerar los puntajes: enfocate en como interactuan los DOS rasgos mas altos con el rasgo mas bajo y ofrece una lectura con perspectiva.
Usa un tono profesional pero calido y alentador.
`

const analysisUserPromptTemplate = `
[Resultado Big Five]
- Apertura (Openness): %d
- Responsabilidad (Conscientiousness): %d
- Extraversion (Extraversion): %d
- Amabilidad (Agreeableness): %d
- Neuroticismo (Neuroticism): %d

Rasgos mas altos: %s y %s. Rasgo mas bajo: %s.

Con base en estos puntajes, resume en no mas de 400 caracteres:
1. El nucleo de la personalidad (con foco en la armonia entre rasgos)
2. Fortalezas profesionales y sociales
3. Un consejo o aspecto a mejorar
`

var traitLabels = map[string]string{
	domain.TraitOpenness:          "Apertura",
	domain.TraitConscientiousness: "Responsabilidad",
	domain.TraitExtraversion:      "Extraversion",
	domain.TraitAgreeableness:     "Amabilidad",
	domain.TraitNeuroticism:       "Neuroticismo",
}

// buildAnalysisPrompt combina instruccion de sistema y mensaje de usuario en un solo texto.
func buildAnalysisPrompt(scores domain.TraitScores) string {
	ranked := scores.Ranked()
	user := fmt.Sprintf(analysisUserPromptTemplate,
		scores.Openness,
		scores.Conscientiousness,
		scores.Extraversion,
		scores.Agreeableness,
		scores.Neuroticism,
		traitLabels[ranked[0].Trait],
		traitLabels[ranked[1].Trait],
		traitLabels[ranked[len(ranked)-1].Trait],
	)
	return strings.TrimSpace(analysisSystemPrompt) + "\n\n" + strings.TrimSpace(user)
}

var (
	fenceStartRe = regexp.MustCompile("(?is)^\\s*```(?:[a-z]+)?\\s*")
	fenceEndRe   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// cleanAnalysisText quita BOM, espacios y fences de markdown que algunos modelos agregan.
func cleanAnalysisText(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "\uFEFF")
	s = fenceStartRe.ReplaceAllString(s, "")
	s = fenceEndRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

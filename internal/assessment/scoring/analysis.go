package scoring

import "purpose-workers/internal/models"

// The text does not vary within a tier; HR reports rely on that.
var analysisBundles = map[models.ScoreTier]models.AnalysisBundle{
	models.TierBelowExpectation: {
		ProfileSummary: "Perfil em construção, com propósito ainda pouco definido e baixa conexão entre valores pessoais e atuação profissional.",
		Competencies: []string{
			"Disposição para receber orientação",
			"Cumprimento de tarefas estruturadas",
		},
		DevelopmentAreas: []string{
			"Clareza de propósito",
			"Autoconhecimento",
			"Comprometimento com metas de longo prazo",
		},
		Recommendations: []string{
			"Acompanhamento próximo do gestor nos primeiros meses",
			"Programa de mentoria com foco em autoconhecimento",
			"Definição de metas curtas e mensuráveis",
		},
		Adaptability:  "Baixa: tende a resistir a mudanças sem direcionamento claro.",
		Leadership:    "Incipiente: prefere seguir orientações a assumir a condução.",
		Interpersonal: "Reservado: interage melhor em grupos pequenos e conhecidos.",
	},
	models.TierWithinExpectation: {
		ProfileSummary: "Perfil alinhado ao esperado, com valores consistentes e propósito em amadurecimento.",
		Competencies: []string{
			"Responsabilidade",
			"Trabalho em equipe",
			"Organização",
		},
		DevelopmentAreas: []string{
			"Iniciativa diante de problemas novos",
			"Comunicação de ideias",
		},
		Recommendations: []string{
			"Treinamentos de comunicação e resolução de problemas",
			"Participação em projetos multidisciplinares",
		},
		Adaptability:  "Moderada: adapta-se bem quando as mudanças são explicadas.",
		Leadership:    "Em desenvolvimento: assume responsabilidades pontuais com apoio.",
		Interpersonal: "Cordial: mantém boas relações e colabora quando solicitado.",
	},
	models.TierAboveExpectation: {
		ProfileSummary: "Perfil acima do esperado, com propósito claro e forte coerência entre valores e atitudes.",
		Competencies: []string{
			"Proatividade",
			"Empatia",
			"Resiliência",
			"Colaboração",
		},
		DevelopmentAreas: []string{
			"Delegação",
			"Gestão do tempo em múltiplas frentes",
		},
		Recommendations: []string{
			"Atribuir desafios com maior autonomia",
			"Incluir em trilhas de desenvolvimento de liderança",
		},
		Adaptability:  "Alta: encara mudanças como oportunidade de crescimento.",
		Leadership:    "Promissora: influencia colegas pelo exemplo.",
		Interpersonal: "Empático: constrói confiança e facilita o trabalho em equipe.",
	},
	models.TierExceededExpectation: {
		ProfileSummary: "Perfil que superou as expectativas, com propósito maduro, valores sólidos e grande potencial de impacto.",
		Competencies: []string{
			"Ética",
			"Comprometimento",
			"Liderança pelo exemplo",
			"Visão de propósito",
			"Inteligência emocional",
		},
		DevelopmentAreas: []string{
			"Equilíbrio entre exigência pessoal e bem-estar",
		},
		Recommendations: []string{
			"Considerar para posições de referência ou liderança",
			"Envolver em iniciativas de cultura e engajamento",
			"Plano de carreira com metas de médio prazo",
		},
		Adaptability:  "Muito alta: lidera processos de mudança.",
		Leadership:    "Destacada: mobiliza pessoas em torno de objetivos comuns.",
		Interpersonal: "Inspirador: referência de colaboração e respeito.",
	},
}

// BuildAnalysis returns a copy of the canned bundle for tier. An unknown tier
// yields the empty bundle on purpose: ScoreTier is closed, so only a
// hand-built value reaches that path and it carries no text to show.
func BuildAnalysis(tier models.ScoreTier) models.AnalysisBundle {
	bundle, ok := analysisBundles[tier]
	if !ok {
		return models.AnalysisBundle{}
	}
	return bundle.Clone()
}

package catalog

import (
	"sync"

	"purpose-workers/internal/models"
)

// DefaultVersion is the calibration the 67/75/90 tier boundaries belong to.
const DefaultVersion = "2024.1"

var characteristicOptions = []string{
	"Comprometido",
	"Ético",
	"Resiliente",
	"Proativo",
	"Empático",
	"Colaborativo",
	"Responsável",
	"Comunicativo",
	"Organizado",
	"Determinado",
	"Criativo",
	"Flexível",
	"Paciente",
	"Otimista",
	"Curioso",
	"Calmo",
	"Detalhista",
	"Independente",
	"Competitivo",
	"Reservado",
}

var characteristicWeights = map[string]int{
	"Comprometido": 5,
	"Ético":        5,
	"Resiliente":   5,
	"Proativo":     5,
	"Empático":     5,
	"Colaborativo": 4,
	"Responsável":  4,
	"Comunicativo": 4,
	"Organizado":   4,
	"Determinado":  4,
	"Criativo":     3,
	"Flexível":     3,
	"Paciente":     3,
	"Otimista":     3,
	"Curioso":      3,
	"Calmo":        2,
	"Detalhista":   2,
	"Independente": 2,
	"Competitivo":  1,
	"Reservado":    1,
}

var statementOptions = []string{
	"Busco fazer a diferença na vida das pessoas",
	"Acredito que meu trabalho dá sentido à minha vida",
	"Gosto de aprender algo novo todos os dias",
	"Prefiro ambientes estáveis e previsíveis",
	"Valorizo o equilíbrio entre vida pessoal e trabalho",
	"Sinto-me realizado quando ajudo minha equipe",
	"Encaro desafios como oportunidades de crescimento",
	"Tenho objetivos claros para os próximos anos",
	"Sou movido por reconhecimento",
	"Procuro sempre cumprir o que prometo",
}

// Indices not listed here weigh DefaultStatementWeight.
var statementWeights = map[int]int{
	0: 5,
	1: 5,
	2: 4,
	5: 5,
	6: 4,
}

var valueOptions = []string{
	"Integridade",
	"Respeito",
	"Responsabilidade",
	"Cooperação",
	"Excelência",
	"Inovação",
	"Família",
	"Aprendizado",
	"Segurança",
	"Autonomia",
	"Reconhecimento",
	"Estabilidade financeira",
}

var valueWeights = map[string]int{
	"Integridade":             5,
	"Respeito":                5,
	"Responsabilidade":        4,
	"Cooperação":              4,
	"Excelência":              4,
	"Inovação":                3,
	"Família":                 3,
	"Aprendizado":             3,
	"Segurança":               2,
	"Autonomia":               2,
	"Reconhecimento":          1,
	"Estabilidade financeira": 1,
}

// DefaultQuestions returns fresh copies of the standard question definitions.
func DefaultQuestions() []models.QuestionDefinition {
	return []models.QuestionDefinition{
		{
			ID:       "caracteristicas-outros",
			Title:    "Como as outras pessoas me veem",
			Subtitle: "Escolha 5 características que os outros percebem em você",
			Options:  append([]string(nil), characteristicOptions...),
		},
		{
			ID:       "caracteristicas-eu",
			Title:    "Como eu me vejo",
			Subtitle: "Escolha 5 características que você reconhece em si",
			Options:  append([]string(nil), characteristicOptions...),
		},
		{
			ID:       "frases-vida",
			Title:    "Frases que combinam com a minha vida",
			Subtitle: "Escolha 5 frases",
			Options:  append([]string(nil), statementOptions...),
		},
		{
			ID:       "valores",
			Title:    "Meus valores",
			Subtitle: "Escolha 5 valores",
			Options:  append([]string(nil), valueOptions...),
		},
	}
}

// DefaultTables returns fresh copies of the standard weight tables.
func DefaultTables() Tables {
	t := Tables{
		Characteristics: make(map[string]int, len(characteristicWeights)),
		Statements:      make(map[int]int, len(statementWeights)),
		Values:          make(map[string]int, len(valueWeights)),
	}
	for k, v := range characteristicWeights {
		t.Characteristics[k] = v
	}
	for k, v := range statementWeights {
		t.Statements[k] = v
	}
	for k, v := range valueWeights {
		t.Values[k] = v
	}
	return t
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide standard catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New(DefaultVersion, DefaultQuestions(), DefaultTables())
		if err != nil {
			panic("catalog: invalid built-in catalog: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

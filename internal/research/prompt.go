package research

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/painresearch/internal/search"
)

// Placeholders substituted for empty optional fields.
const (
	NoSubthemes = "Не указаны"
	NoAudience  = "Не указана"
)

// SystemInstruction describes the method and the output schema. The model is
// told not to invent data.
const SystemInstruction = `Вы — аналитическая поисково-исследовательская система, работающая с реальными данными рунета.
Ваша задача — выявить реальные поисковые паттерны и пользовательские боли.
Работа ведётся строго на основе данных: Яндекс.Вордстат, Яндекс.Дзен, VC.ru, Habr, профильных сообществ.
География: Россия / русскоязычный рынок. Язык: русский.

СЛЕДУЙТЕ ЭТАПАМ:
1. Сбор запросов (Wordstat) - точные формулировки, группировка в кластеры.
2. Сбор реальных комментариев (Дзен, VC, Habr) - прямые цитаты.
3. Формулировка болей (прямая речь, эмоционально).
4. Ранжирование по формуле: (Частотность * 0.4) + (Обсуждаемость * 0.35) + (Индекс боли * 0.25).
5. Формат вывода: СТРОГИЙ JSON.

JSON СТРУКТУРА:
{
  "clusters": [
    {
      "name": "Название кластера",
      "themes": [
        {
          "title": "Название темы",
          "pain": "Цитата боли (прямая речь)",
          "query": "Запрос из Вордстата",
          "frequency": "высокая/средняя/низкая",
          "score": 85,
          "comments": ["Комментарий 1", "Комментарий 2", "Комментарий 3"]
        }
      ]
    }
  ],
  "top15": [
    {
      "title": "Название темы",
      "cluster": "Кластер",
      "painShort": "краткая боль",
      "score": 85
    }
  ]
}

В top15 не более 15 элементов, по убыванию балла.
Ничего не придумывайте. Если данных нет - пишите "нет данных". Не используйте маркетинговый стиль.`

// BuildPrompt formats the per-request instruction. ctx holds optional web
// search hits gathered locally; it may be empty.
func BuildPrompt(p Params, ctx []search.Result) string {
	subthemes := strings.TrimSpace(p.Subthemes)
	if subthemes == "" {
		subthemes = NoSubthemes
	}
	audience := strings.TrimSpace(p.Audience)
	if audience == "" {
		audience = NoAudience
	}

	var sb strings.Builder
	sb.WriteString("Проведи исследование по следующим параметрам:\n")
	sb.WriteString(fmt.Sprintf("Рубрика: %s\n", p.Topic))
	sb.WriteString(fmt.Sprintf("Подтемы: %s\n", subthemes))
	sb.WriteString(fmt.Sprintf("ЦА: %s\n", audience))
	sb.WriteString(fmt.Sprintf("Глубина анализа: %s\n", p.Depth.Label()))
	sb.WriteString("\nИспользуй поиск в интернете для получения актуальных данных из рунета (Яндекс.Вордстат, Дзен, форумы, VC, Habr).\n")
	if len(ctx) > 0 {
		sb.WriteString("\nНайденные материалы (используй как источники, не выдумывай сверх них):\n")
		for i, r := range ctx {
			sb.WriteString(fmt.Sprintf("%d. %s — %s\n", i+1, r.Title, r.URL))
			if r.Snippet != "" {
				sb.WriteString("   ")
				sb.WriteString(r.Snippet)
				sb.WriteString("\n")
			}
		}
	}
	sb.WriteString("Верни результат СТРОГО в формате JSON, соответствующем заданной схеме.")
	return sb.String()
}

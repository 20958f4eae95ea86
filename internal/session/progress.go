package session

import "time"

// DefaultProgressInterval is how long each loading message stays on screen.
const DefaultProgressInterval = 4 * time.Second

// LoadingMessages rotate on the loading page. They are decorative and do not
// track real progress.
var LoadingMessages = []string{
	"Подключаемся к Яндекс.Вордстат...",
	"Анализируем частотность запросов в рунете...",
	"Ищем статьи на VC.ru и Habr по вашей теме...",
	"Парсим комментарии в Яндекс.Дзен...",
	"Выявляем эмоциональные паттерны и боли...",
	"Рассчитываем интегральный приоритет тем...",
	"Группируем результаты в кластеры...",
	"Почти готово, структурируем данные...",
	"Завершаем глубокий анализ болей...",
}

// Progress maps elapsed loading time to a status message.
type Progress struct {
	Messages []string
	Interval time.Duration
}

// DefaultProgress uses LoadingMessages every DefaultProgressInterval.
func DefaultProgress() Progress {
	return Progress{Messages: LoadingMessages, Interval: DefaultProgressInterval}
}

// At returns the message shown after elapsed loading time.
func (p Progress) At(elapsed time.Duration) string {
	if len(p.Messages) == 0 {
		return ""
	}
	iv := p.Interval
	if iv <= 0 {
		iv = DefaultProgressInterval
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return p.Messages[int(elapsed/iv)%len(p.Messages)]
}

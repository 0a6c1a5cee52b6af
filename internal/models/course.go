package models

// CourseModule is an ordered group of lessons within a course.
type CourseModule struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	LessonIDs []string `json:"lesson_ids"`
}

// Course is a prepackaged, self-paced offering. Immutable once published.
type Course struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Topic   string         `json:"topic"`
	Level   string         `json:"level"`
	Price   float64        `json:"price"`
	Modules []CourseModule `json:"modules"`
}

// TotalLessons returns the number of lessons across all modules.
func (c Course) TotalLessons() int {
	total := 0
	for _, m := range c.Modules {
		total += len(m.LessonIDs)
	}
	return total
}

// CourseFilter captures filtering options for listing courses.
type CourseFilter struct {
	Topic string
	Level string
}

// Matches reports whether the course satisfies the filter.
func (f CourseFilter) Matches(c Course) bool {
	if f.Topic != "" && c.Topic != f.Topic {
		return false
	}
	if f.Level != "" && c.Level != f.Level {
		return false
	}
	return true
}

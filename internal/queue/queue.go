// Package queue kapselt den Redis-gestützten Task-Broker. Jobs werden
// über asynq eingereiht und von den Workern asynchron abgearbeitet.
package queue

// Task-Typen der Hintergrundjobs.
const (
	TypeProcessPDF       = "exam:process_pdf"
	TypeGenerateAnalysis = "exam:generate_analysis"
	TypeCategorizeTopics = "exam:categorize_topics"
	TypePing             = "exam:ping"
)

// defaultQueue ist die einzige verwendete Warteschlange.
const defaultQueue = "default"

// TaskTypes listet alle registrierten Task-Typen auf.
func TaskTypes() []string {
	return []string{TypeProcessPDF, TypeGenerateAnalysis, TypeCategorizeTopics, TypePing}
}

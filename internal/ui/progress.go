package ui

import (
	"fmt"

	"github.com/ohmpatel46/spotify-wrapped/internal/tasks"
)

// ProgressLine renders one progress update as a single status line.
//
// Lookup batches that failed are rendered as warnings; every other update uses the help style with the phase
// as a bold prefix.
func ProgressLine(update tasks.ProgressUpdate) string {
	counter := ""
	if update.Total > 0 {
		counter = fmt.Sprintf(" [%d/%d]", update.Step, update.Total)
	}

	prefix := Styles.Title(update.Phase.String()) + counter
	if err, ok := update.Data.(error); ok && err != nil {
		return prefix + " " + Styles.Warn(update.Message)
	}
	return prefix + " " + Styles.Help(update.Message)
}

// Drain writes every update received on progress to emit until the channel closes.
func Drain(progress <-chan tasks.ProgressUpdate, emit func(string)) {
	for update := range progress {
		emit(ProgressLine(update))
	}
}

package update

import "fmt"

func formatDuration(totalSec int) string {
	if totalSec < 0 {
		totalSec = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSec/60, totalSec%60)
}

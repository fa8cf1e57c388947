package cli

import (
	"fmt"

	"github.com/julianstephens/habitquest/internal/achievements"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/tracker"
)

// PrintRewards reports achievements unlocked and level changes after a write.
func PrintRewards(unlocked []models.Achievement, level tracker.LevelChange) {
	for _, a := range unlocked {
		fmt.Printf("  %s %s\n", TitleStyle.Render("Achievement unlocked:"), achievements.Describe(a))
	}
	if level.LeveledUp {
		fmt.Printf("  %s You reached level %d\n", TitleStyle.Render("Level up!"), level.Level)
	}
}

package command

import (
	"fmt"
	"strconv"

	"lendinghub/internal/microservices/http-api/models"

	"github.com/fatih/color"
)

const dateLayout = "2006-01-02"

func parseID(arg, name string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, arg)
	}
	return id, nil
}

// warnNotification prints a post-commit notification failure. The operation itself
// succeeded, so the command does not fail.
func warnNotification(err error) {
	if err != nil {
		color.Yellow("⚠ the user could not be notified: %v", err)
	}
}

func printHolding(label string, h *models.Holding) {
	if h == nil {
		return
	}
	title := ""
	if h.Stock != nil {
		title = h.Stock.Title()
	}
	color.Cyan("%s #%d  stock %d  %q  user %s  expires %s",
		label, h.ID, h.StockID, title, h.UserID, h.ExpirationDate.Format(dateLayout))
}

func printLending(label string, l *models.Lending) {
	title := ""
	if l.Stock != nil {
		title = l.Stock.Title()
	}
	renewed := ""
	if l.IsRenewed() {
		renewed = " (renewed)"
	}
	color.Cyan("%s #%d  stock %d  %q  user %s  due %s%s",
		label, l.ID, l.StockID, title, l.UserID, l.ActualDueDate().Format(dateLayout), renewed)
}

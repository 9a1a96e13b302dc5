package service

import "lendinghub/internal/microservices/http-api/models"

// Expiry tallies the cancellation of expired holdings. A holding whose cancellation
// committed but whose cascade notification failed counts as Expired and as NotifyFailed.
type Expiry struct {
	Found        int
	Expired      int
	Cascaded     int
	Failed       int
	NotifyFailed int
}

// Record adds the result of one HoldService.Cancel
func (e *Expiry) Record(next *models.Holding, err error) {
	switch {
	case err == nil:
		e.Expired++
	case next != nil:
		e.Expired++
		e.NotifyFailed++
	default:
		e.Failed++
	}
	if next != nil {
		e.Cascaded++
	}
}

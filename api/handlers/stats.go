package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/leadtrackr/lead-tracker-api/config"
	"github.com/leadtrackr/lead-tracker-api/models"
)

// CallStatsHandler returns the aggregate numbers shown above the call table:
// total call count, calls logged today and total time on the phone
func (c Call) CallStatsHandler(w http.ResponseWriter, r *http.Request) {
	dbResp, err := c.DB.Find(context.TODO(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to get calls", http.StatusInternalServerError, w, err)
		return
	}

	stats := models.CallStats{
		TotalCalls:    len(dbResp),
		CallsToday:    countOnDate(dbResp, time.Now().Format("2006-01-02")),
		TotalDuration: formatTotalDuration(sumDurationSeconds(dbResp)),
	}

	b, err := json.Marshal(stats)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// sumDurationSeconds totals the mm:ss duration strings across calls. A call
// with a non-numeric minutes component is skipped; a missing or malformed
// seconds component counts as zero. Aggregation never fails on bad input.
func sumDurationSeconds(calls []models.Call) int {
	total := 0
	for _, call := range calls {
		parts := strings.SplitN(call.Duration, ":", 2)
		minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		seconds := 0
		if len(parts) == 2 {
			if s, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
				seconds = s
			}
		}
		total += minutes*60 + seconds
	}
	return total
}

func formatTotalDuration(totalSeconds int) string {
	return fmt.Sprintf("%dh %dm", totalSeconds/3600, (totalSeconds%3600)/60)
}

// countOnDate compares calendar-date strings, not timestamps
func countOnDate(calls []models.Call, date string) int {
	count := 0
	for _, call := range calls {
		if call.Date == date {
			count++
		}
	}
	return count
}

package library

import (
	"math"
	"time"
)

// ProgressPercentage is round(page/total*100), or 0 when total is 0.
func ProgressPercentage(currentPage, totalPages int) int {
	if totalPages <= 0 {
		return 0
	}
	return int(math.Round(float64(currentPage) / float64(totalPages) * 100))
}

// Progress is the mutable reading state of a membership.
type Progress struct {
	Status      ReadingStatus
	CurrentPage int
	Rating      *int
	Review      *string
	IsFavorite  bool
	StartedAt   *time.Time
	FinishedAt  *time.Time
}

// Derive applies upd to cur. The page rule runs first, an explicit status
// then overrides it, and annotations are copied last. upd must already be validated.
func Derive(cur Progress, upd ProgressUpdate, totalPages int, now time.Time) Progress {
	next := applyPage(cur, upd, totalPages, now)
	next = applyStatus(next, upd, totalPages, now)
	return applyAnnotations(next, upd)
}

func applyPage(p Progress, upd ProgressUpdate, totalPages int, now time.Time) Progress {
	if upd.CurrentPage == nil {
		return p
	}
	page := *upd.CurrentPage
	stored := p.Status
	p.CurrentPage = page

	switch {
	case page == 0:
		p.Status = StatusWantToRead
		p.StartedAt = nil
	case totalPages > 0 && page >= totalPages:
		p.Status = StatusFinished
		p.FinishedAt = timePtr(now)
	case stored == StatusWantToRead:
		p.Status = StatusReading
		p.StartedAt = timePtr(now)
	}
	return p
}

func applyStatus(p Progress, upd ProgressUpdate, totalPages int, now time.Time) Progress {
	if upd.Status == nil {
		return p
	}
	p.Status = *upd.Status

	switch p.Status {
	case StatusReading:
		if p.StartedAt == nil {
			p.StartedAt = timePtr(now)
		}
	case StatusFinished:
		p.FinishedAt = timePtr(now)
		if upd.CurrentPage == nil {
			p.CurrentPage = totalPages
		}
	case StatusWantToRead:
		p.StartedAt = nil
		p.FinishedAt = nil
		if upd.CurrentPage == nil {
			p.CurrentPage = 0
		}
	}
	return p
}

func applyAnnotations(p Progress, upd ProgressUpdate) Progress {
	if upd.Rating != nil {
		p.Rating = intPtr(*upd.Rating)
	}
	if upd.Review != nil {
		review := *upd.Review
		p.Review = &review
	}
	if upd.IsFavorite != nil {
		p.IsFavorite = *upd.IsFavorite
	}
	return p
}

func timePtr(t time.Time) *time.Time { return &t }

func intPtr(i int) *int { return &i }

package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/dropdeck-dev/dropdeck/db"
	"github.com/dropdeck-dev/dropdeck/internal/linkcheck"
	"github.com/dropdeck-dev/dropdeck/internal/models"
	"github.com/dropdeck-dev/dropdeck/internal/services"
	"gorm.io/gorm"
)

const (
	resetJobName = "daily_reset"

	linkCheckInterval = 24 * time.Hour
)

// Scheduler owns the background work: the nightly auto-deactivation at a
// fixed wall-clock hour and the daily link sweep. The reset's last run is
// persisted so a restart can catch up on a missed firing.
type Scheduler struct {
	resetHour int
	location  *time.Location

	mu     sync.Mutex
	timer  *time.Timer
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler firing at resetHour in a fixed UTC offset
// (expressed in hours).
func New(resetHour, utcOffset int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		resetHour: resetHour,
		location:  time.FixedZone("reset", utcOffset*3600),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start arms the reset timer and the link sweep. If the most recent
// scheduled firing was missed while the process was down, the reset runs
// immediately.
func (s *Scheduler) Start() {
	log.Println("Starting scheduler...")

	if s.missedLastRun(time.Now()) {
		log.Println("Missed daily reset detected, running catch-up")
		s.runReset()
	}

	s.scheduleReset()

	go s.runLinkSweep()

	log.Printf("Scheduler started, next reset in %s", NextResetDelay(time.Now(), s.resetHour, s.location))
}

// Stop shuts down all scheduled work.
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	log.Println("Scheduler stopped")
}

// NextResetDelay computes the delay from now until the next occurrence of
// the reset hour, evaluated in the scheduler's fixed zone. A current time at
// or past the hour rolls to the next day.
func NextResetDelay(now time.Time, hour int, loc *time.Location) time.Duration {
	shifted := now.In(loc)

	next := time.Date(shifted.Year(), shifted.Month(), shifted.Day(), hour, 0, 0, 0, loc)

	if !next.After(shifted) {
		next = next.Add(24 * time.Hour)
	}

	return next.Sub(shifted)
}

// lastScheduledReset is the most recent firing time at or before now.
func lastScheduledReset(now time.Time, hour int, loc *time.Location) time.Time {
	shifted := now.In(loc)

	last := time.Date(shifted.Year(), shifted.Month(), shifted.Day(), hour, 0, 0, 0, loc)

	if last.After(shifted) {
		last = last.Add(-24 * time.Hour)
	}

	return last
}

func (s *Scheduler) missedLastRun(now time.Time) bool {
	var run models.JobRun

	err := db.DB.Where("name = ?", resetJobName).First(&run).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to read last reset run: %v", err)
		}
		// No recorded run yet: don't reset on first boot.
		return false
	}

	return run.LastRun.Before(lastScheduledReset(now, s.resetHour, s.location))
}

func (s *Scheduler) scheduleReset() {
	delay := NextResetDelay(time.Now(), s.resetHour, s.location)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return
	}

	s.timer = time.AfterFunc(delay, func() {
		s.runReset()
		s.scheduleReset()
	})
}

type ownerCount struct {
	OwnerID uint
	Count   int64
}

// runReset flips every active project to inactive in one bulk write, records
// the run, and notifies users who configured a webhook. A failed write is
// logged and dropped until the next firing.
func (s *Scheduler) runReset() {
	var counts []ownerCount

	err := db.DB.Model(&models.Airdrop{}).
		Select("owner_id, COUNT(*) as count").
		Where("active = ?", true).
		Group("owner_id").
		Scan(&counts).Error

	if err != nil {
		log.Printf("Daily reset: failed to collect active counts: %v", err)
	}

	result := db.DB.Model(&models.Airdrop{}).
		Where("active = ?", true).
		Update("active", false)

	if result.Error != nil {
		log.Printf("Daily reset failed: %v", result.Error)
		return
	}

	log.Printf("Daily reset deactivated %d projects", result.RowsAffected)

	s.recordRun(time.Now())
	s.notifyOwners(counts)
}

func (s *Scheduler) recordRun(at time.Time) {
	var run models.JobRun

	err := db.DB.Where("name = ?", resetJobName).First(&run).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.DB.Create(&models.JobRun{Name: resetJobName, LastRun: at}).Error
	} else if err == nil {
		err = db.DB.Model(&run).Update("last_run", at).Error
	}

	if err != nil {
		log.Printf("Failed to record reset run: %v", err)
	}
}

func (s *Scheduler) notifyOwners(counts []ownerCount) {
	for _, entry := range counts {
		var settings models.UserSettings

		err := db.DB.Preload("User").Where("user_id = ?", entry.OwnerID).First(&settings).Error

		if err != nil || settings.DiscordWebhook == "" {
			continue
		}

		if err := services.SendDailyResetNotification(settings.DiscordWebhook, settings.User.Username, entry.Count); err != nil {
			log.Printf("Failed to notify user %d about daily reset: %v", entry.OwnerID, err)
		}
	}
}

// runLinkSweep probes each tracked link once per day and records the result
// on the row.
func (s *Scheduler) runLinkSweep() {
	ticker := time.NewTicker(linkCheckInterval)
	defer ticker.Stop()

	s.sweepLinks()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sweepLinks()
		}
	}
}

func (s *Scheduler) sweepLinks() {
	var airdrops []models.Airdrop

	if err := db.DB.Where("link <> ''").Find(&airdrops).Error; err != nil {
		log.Printf("Link sweep: failed to list airdrops: %v", err)
		return
	}

	for _, airdrop := range airdrops {
		if s.ctx.Err() != nil {
			return
		}

		err := linkcheck.Probe(s.ctx, airdrop.Link, linkcheck.DefaultTimeout)

		now := time.Now()
		updates := map[string]interface{}{
			"link_ok":         err == nil,
			"link_checked_at": now,
		}

		if dbErr := db.DB.Model(&models.Airdrop{}).Where("id = ?", airdrop.ID).Updates(updates).Error; dbErr != nil {
			log.Printf("Link sweep: failed to update %s: %v", airdrop.ID, dbErr)
		}

		if err != nil {
			log.Printf("Link sweep: %s (%s) is down: %v", airdrop.Name, airdrop.Link, err)
		}
	}
}

// Global scheduler instance
var globalScheduler *Scheduler

// Initialize creates and starts the global scheduler.
func Initialize(resetHour, utcOffset int) {
	globalScheduler = New(resetHour, utcOffset)
	globalScheduler.Start()
}

// Shutdown stops the global scheduler.
func Shutdown() {
	if globalScheduler != nil {
		globalScheduler.Stop()
	}
}

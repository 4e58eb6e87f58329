package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"courtagent/config"
	"courtagent/services/booking"
	"courtagent/services/tasks"
	"courtagent/utils"

	"github.com/hibiken/asynq"
)

const (
	refreshInterval   = 10 * time.Minute
	snapshotCacheTTL  = 15 * time.Minute
	snapshotKeyPrefix = "availability:"
)

var queueClient *asynq.Client

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitAvailabilityWorker starts the background worker that periodically
// rescans today's grid and caches the resolved availability, so read-only
// availability queries do not pay the browser round trip.
func InitAvailabilityWorker(engine *booking.DefaultBookingWorkflow) {
	queueClient = asynq.NewClient(redisOpts())

	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			// The worker shares one browser session, so refreshes must not
			// run concurrently.
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAvailabilityRefresh, handleAvailabilityRefresh(engine))

	go func() {
		log.Println("[AvailabilityWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[AvailabilityWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[AvailabilityWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// EnqueueRefresh schedules an availability refresh for the date at the given
// time.
func EnqueueRefresh(date string, fireAt time.Time) error {
	task, opts, err := tasks.NewAvailabilityRefreshTask(tasks.RefreshPayload{Date: date}, fireAt)
	if err != nil {
		return err
	}
	_, err = queueClient.Enqueue(task, opts...)
	return err
}

func handleAvailabilityRefresh(engine *booking.DefaultBookingWorkflow) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.RefreshPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[AvailabilityRefresh] Invalid payload: %v", err)
			return err
		}
		if p.Date == "" {
			p.Date = time.Now().Format("2006-01-02")
		}

		result, err := engine.ResolveForDate(ctx, p.Date)
		if err != nil {
			log.Printf("[AvailabilityRefresh] Resolution failed for %s: %v", p.Date, err)
		} else if err := CacheAvailability(ctx, result); err != nil {
			log.Printf("[AvailabilityRefresh] Failed to cache snapshot for %s: %v", p.Date, err)
		} else {
			log.Printf("[AvailabilityRefresh] Cached %d available slots for %s", len(result.Available), p.Date)
		}

		// The refresh chain always continues; today's date is re-resolved at
		// fire time so the chain rolls over midnight.
		if err := EnqueueRefresh("", time.Now().Add(refreshInterval)); err != nil {
			log.Printf("[AvailabilityRefresh] Failed to schedule next refresh: %v", err)
		}
		return nil
	}
}

// CacheAvailability stores a resolved availability snapshot in Redis.
func CacheAvailability(ctx context.Context, result *booking.AvailabilityResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return utils.GetCacheClient().Set(ctx, snapshotKeyPrefix+result.Date, data, snapshotCacheTTL).Err()
}

// CachedAvailability loads a cached snapshot, returning (nil, nil) on a miss.
func CachedAvailability(ctx context.Context, date string) (*booking.AvailabilityResult, error) {
	data, err := utils.GetCacheClient().Get(ctx, snapshotKeyPrefix+date).Bytes()
	if err != nil {
		return nil, nil
	}
	var result booking.AvailabilityResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

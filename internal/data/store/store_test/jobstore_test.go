package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/data/redisStore"
	"github.com/avuppal/driveRAG/internal/data/store"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/internal/domain/jobModel"
)

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	internalStore := redisStore.NewTestStore(client)
	jobStore := store.TestJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:      jobID,
		JobType: jobModel.JobTypeQuery,
		Status:  jobModel.JobStatusRunning,
		JobPayload: jobModel.JobPayload{
			Query: &commonModels.QueryContext{Question: "How do I mock Redis?"},
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		err := jobStore.SaveJob(ctx, testJob)
		if err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}

		if retrievedJob.JobPayload.Query == nil ||
			retrievedJob.JobPayload.Query.Question != testJob.JobPayload.Query.Question {
			t.Errorf("Data mismatch! Got %+v", retrievedJob.JobPayload.Query)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		_, found := jobStore.GetJob(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)

		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisAnswerCache_Roundtrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := store.TestAnswerCache(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "cache-trace")

	answer := commonModels.QueryAnswer{
		Answer:           "the budget is 40k",
		Citations:        []string{"report.pdf"},
		SourcesUsed:      1,
		GenerationMethod: commonModels.GenerationLLM,
	}

	if _, found := cache.Get(ctx, "key-1"); found {
		t.Fatal("Empty cache reported a hit")
	}

	if err := cache.Put(ctx, "key-1", answer); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found := cache.Get(ctx, "key-1")
	if !found {
		t.Fatal("Cached answer not found")
	}
	if got.Answer != answer.Answer || len(got.Citations) != 1 || got.GenerationMethod != commonModels.GenerationLLM {
		t.Errorf("Roundtrip mismatch: %+v", got)
	}
}

func TestInMemoryAnswerCache(t *testing.T) {
	cache := store.InitInMemoryAnswerCache()
	ctx := context.Background()

	if _, found := cache.Get(ctx, "k"); found {
		t.Fatal("Empty cache reported a hit")
	}
	if err := cache.Put(ctx, "k", commonModels.QueryAnswer{Answer: "a"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if got, found := cache.Get(ctx, "k"); !found || got.Answer != "a" {
		t.Errorf("Unexpected cache state: %+v found=%v", got, found)
	}
}

func TestInMemoryJobStore(t *testing.T) {
	jobStore := store.InitInMemoryJobStore()
	ctx := context.Background()

	job := jobModel.Job{Id: "mem-1", Status: jobModel.JobStatusQueued}
	if err := jobStore.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	got, found := jobStore.GetJob(ctx, "mem-1")
	if !found || got.Status != jobModel.JobStatusQueued {
		t.Errorf("Unexpected job: %+v found=%v", got, found)
	}

	jobStore.DeleteJob(ctx, "mem-1")
	if _, found := jobStore.GetJob(ctx, "mem-1"); found {
		t.Error("Job still present after delete")
	}
}

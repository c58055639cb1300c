package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/model"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }

func TestCreateJob(t *testing.T) {
	f := newFixture(t)

	job, err := f.jobs.CreateJob(context.Background(), adminEmail, CreateJobRequest{
		CrewContentID:  crewID,
		Title:          "  Scene Crew  ",
		Description:    "Opbygning af scenen",
		TotalPositions: 4,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if job.Title != "Scene Crew" {
		t.Errorf("title = %q, want trimmed", job.Title)
	}
	if !job.IsActive || job.FilledPositions != 0 {
		t.Errorf("new job state = active:%v filled:%d", job.IsActive, job.FilledPositions)
	}
	if job.CrewKey != crewKey {
		t.Errorf("crewKey = %q", job.CrewKey)
	}
}

func TestCreateJobValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  CreateJobRequest
	}{
		{"empty title", CreateJobRequest{CrewContentID: crewID, Title: "   ", TotalPositions: 1}},
		{"title too long", CreateJobRequest{CrewContentID: crewID, Title: strings.Repeat("x", 201), TotalPositions: 1}},
		{"description too long", CreateJobRequest{CrewContentID: crewID, Title: "ok", Description: strings.Repeat("x", 2001)}},
		{"negative positions", CreateJobRequest{CrewContentID: crewID, Title: "ok", TotalPositions: -1}},
		{"unknown crew", CreateJobRequest{CrewContentID: 98765, Title: "ok", TotalPositions: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.jobs.CreateJob(context.Background(), adminEmail, tt.req); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want validation", err)
			}
		})
	}
}

func TestCreateJobPermissions(t *testing.T) {
	f := newFixture(t)
	req := CreateJobRequest{CrewContentID: crewID, Title: "Bar", TotalPositions: 2}

	if _, err := f.jobs.CreateJob(context.Background(), memberEmail, req); !errors.Is(err, ErrForbidden) {
		t.Errorf("member err = %v, want forbidden", err)
	}
	// scheduler 主管这个 crew
	if _, err := f.jobs.CreateJob(context.Background(), schedulerEmail, req); err != nil {
		t.Errorf("scheduler create: %v", err)
	}
	// 但不主管别的
	foreign := CreateJobRequest{CrewContentID: 2202, Title: "Gate", TotalPositions: 2}
	f.content.addCrew(2202, "d4e5f6a7-b8c9-4d3e-9f4a-5b6c7d8e9f0a", "Gate Crew", nil)
	if _, err := f.jobs.CreateJob(context.Background(), schedulerEmail, foreign); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign crew err = %v, want forbidden", err)
	}
}

func TestUpdateJobPartial(t *testing.T) {
	f := newFixture(t)
	job := f.job(t, 3)

	updated, err := f.jobs.UpdateJob(context.Background(), adminEmail, UpdateJobRequest{
		JobID:          job.ID,
		TotalPositions: intPtr(5),
		IsActive:       boolPtr(false),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.TotalPositions != 5 || updated.IsActive {
		t.Errorf("updated = %+v", updated)
	}
	// 没传的字段不动
	reloaded := f.reloadJob(t, job.ID)
	if reloaded.Title != "Bartender" || reloaded.TotalPositions != 5 || reloaded.IsActive {
		t.Errorf("reloaded = %+v", reloaded)
	}

	if _, err := f.jobs.UpdateJob(context.Background(), adminEmail, UpdateJobRequest{
		JobID: job.ID,
		Title: strPtr(""),
	}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty title err = %v, want validation", err)
	}

	if _, err := f.jobs.UpdateJob(context.Background(), adminEmail, UpdateJobRequest{JobID: 99999}); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("missing err = %v, want not found", err)
	}
}

func TestDeleteJobCascades(t *testing.T) {
	f := newFixture(t)
	job := f.job(t, 3)
	f.submit(t, memberEmail, job.ID)

	if err := f.jobs.DeleteJob(context.Background(), adminEmail, job.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.jobs.GetJob(context.Background(), job.ID); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("get err = %v, want not found", err)
	}
	list, err := f.apps.MemberApplications(context.Background(), memberEmail)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("applications survived delete: %+v", list)
	}
}

func TestAvailableJobsProjection(t *testing.T) {
	f := newFixture(t)
	older := mustCreateJob(t, &model.CrewJob{
		CrewContentID: crewID, CrewKey: crewKey, Title: "Older",
		TotalPositions: 2, IsActive: true,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	})
	newer := f.job(t, 3)
	// 满员和停用的不出现在报名页
	mustCreateJob(t, &model.CrewJob{CrewContentID: crewID, Title: "Full", TotalPositions: 1, FilledPositions: 1, IsActive: true})
	mustCreateJob(t, &model.CrewJob{CrewContentID: crewID, Title: "Inactive", TotalPositions: 3, IsActive: false})

	f.submit(t, memberEmail, older.ID)

	data, err := f.jobs.AvailableJobs(context.Background(), memberEmail)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(data.Jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(data.Jobs))
	}
	// 创建时间正序
	if data.Jobs[0].JobID != older.ID || data.Jobs[1].JobID != newer.ID {
		t.Errorf("order = %d, %d", data.Jobs[0].JobID, data.Jobs[1].JobID)
	}
	if !data.Jobs[0].HasApplied || data.Jobs[1].HasApplied {
		t.Errorf("hasApplied flags = %v, %v", data.Jobs[0].HasApplied, data.Jobs[1].HasApplied)
	}
	if data.Jobs[0].CrewName != "Bar Crew" {
		t.Errorf("crewName = %q", data.Jobs[0].CrewName)
	}
	if data.TotalAvailablePositions != 5 {
		t.Errorf("totalAvailable = %d, want 5 (2+3, full and inactive excluded)", data.TotalAvailablePositions)
	}
	if !data.IsAuthenticated || data.TotalJobs != 2 {
		t.Errorf("meta = auth:%v total:%d", data.IsAuthenticated, data.TotalJobs)
	}
}

func TestAvailableJobsAnonymous(t *testing.T) {
	f := newFixture(t)
	f.job(t, 2)

	data, err := f.jobs.AvailableJobs(context.Background(), "")
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if data.IsAuthenticated {
		t.Error("anonymous should not be authenticated")
	}
	if data.Jobs[0].HasApplied {
		t.Error("anonymous should have no application annotation")
	}
}

func TestJobsForCrewIncludesInactive(t *testing.T) {
	f := newFixture(t)
	f.job(t, 2)
	mustCreateJob(t, &model.CrewJob{CrewContentID: crewID, Title: "Paused", TotalPositions: 1, IsActive: false})

	list, err := f.jobs.JobsForCrew(context.Background(), schedulerEmail, crewID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("jobs = %d, want 2 (inactive included)", len(list))
	}

	if _, err := f.jobs.JobsForCrew(context.Background(), memberEmail, crewID); !errors.Is(err, ErrForbidden) {
		t.Errorf("member err = %v, want forbidden", err)
	}
}

func TestInactiveJobPersistsInactive(t *testing.T) {
	f := newFixture(t)
	job := mustCreateJob(t, &model.CrewJob{CrewContentID: crewID, Title: "Paused", TotalPositions: 2, IsActive: false})

	if f.reloadJob(t, job.ID).IsActive {
		t.Fatal("job created inactive came back active")
	}

	// 停用岗位不收报名
	if _, err := f.apps.Submit(context.Background(), memberEmail, job.ID, ""); !errors.Is(err, ErrJobClosed) {
		t.Errorf("err = %v, want job closed", err)
	}
}

func TestAvailablePositionsFloorsAtZero(t *testing.T) {
	job := model.CrewJob{TotalPositions: 2, FilledPositions: 5}
	if got := job.AvailablePositions(); got != 0 {
		t.Errorf("available = %d, want 0", got)
	}
}

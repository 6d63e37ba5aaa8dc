package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/factscope/internal/model"
)

// Verifier runs one verification task
type Verifier interface {
	Run(ctx context.Context, task model.VerificationTask) (*model.Result, error)
}

// VerifyJob is one task of a batch
type VerifyJob struct {
	Index    int
	Task     model.VerificationTask
	Verifier Verifier
}

// Execute runs the task
func (j *VerifyJob) Execute(ctx context.Context) Result {
	result, err := j.Verifier.Run(ctx, j.Task)
	return &BatchResult{
		Index:  j.Index,
		Task:   j.Task,
		Result: result,
		Error:  err,
	}
}

// BatchResult is the outcome of one task of a batch
type BatchResult struct {
	Index  int
	Task   model.VerificationTask
	Result *model.Result
	Error  error
}

// GetError returns the error from the run
func (r *BatchResult) GetError() error {
	return r.Error
}

// BatchProcessor verifies many tasks concurrently
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessTasks runs every task and returns the results in input order
func (b *BatchProcessor) ProcessTasks(ctx context.Context, tasks []model.VerificationTask) []*BatchResult {
	if len(tasks) == 0 {
		return []*BatchResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	// Submit from a separate goroutine so a full queue cannot deadlock the collector
	go func() {
		defer pool.Close()
		for i, task := range tasks {
			if !pool.Submit(&VerifyJob{Index: i, Task: task, Verifier: b.verifier}) {
				return
			}
		}
	}()

	batchResults := make([]*BatchResult, 0, len(tasks))
	for result := range pool.Results() {
		batchResults = append(batchResults, result.(*BatchResult))
	}

	sort.Slice(batchResults, func(i, j int) bool {
		return batchResults[i].Index < batchResults[j].Index
	})
	return batchResults
}

// ProcessFile reads tasks from a file and verifies them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath, language string) ([]*BatchResult, error) {
	tasks, err := ReadTasksFromFile(filePath, language)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}

	return b.ProcessTasks(ctx, tasks), nil
}

// ReadTasksFromFile reads one task per line. Lines starting with http:// or
// https:// become URL tasks, other lines are verified as text. Blank lines,
// # comments and duplicates are skipped.
func ReadTasksFromFile(filePath, language string) ([]model.VerificationTask, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var tasks []model.VerificationTask
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true

		task := model.VerificationTask{Language: language}
		if isURL(line) {
			task.URL = line
		} else {
			task.Text = line
		}
		tasks = append(tasks, task)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return tasks, nil
}

func isURL(line string) bool {
	lower := strings.ToLower(line)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

package workers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/estateflow/inventorybackend/capture"
	"github.com/estateflow/inventorybackend/media"
	"github.com/estateflow/inventorybackend/realtime"
	"github.com/estateflow/inventorybackend/repository"
)

// TaskType constants
const (
	TaskVersions = "versions"
	TaskMetadata = "metadata"
)

type PhotoJob struct {
	PhotoID uuid.UUID
	// RelativePath is the original's store-relative path, as returned by
	// Store.Save for the full-size asset
	RelativePath string
	TaskType     string
}

// PhotoProcessor runs the post-upload pipeline: resized versions and EXIF
// extraction, each as an independent task so one failing does not block the
// other. It also satisfies capture.Uploader so the session tracker can hand
// captures straight to the queue.
type PhotoProcessor struct {
	JobQueue  chan PhotoJob
	Store     media.Store
	Processor *media.Processor
	Photos    repository.PhotoRepositoryInterface
	Hub       *realtime.Hub
	Wg        sync.WaitGroup
	StopChan  chan struct{}
	Pending   map[string]bool
	Mutex     sync.Mutex
}

func NewPhotoProcessor(store media.Store, processor *media.Processor, photos repository.PhotoRepositoryInterface, hub *realtime.Hub, queueSize, numWorkers int) *PhotoProcessor {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	proc := &PhotoProcessor{
		JobQueue:  make(chan PhotoJob, queueSize),
		Store:     store,
		Processor: processor,
		Photos:    photos,
		Hub:       hub,
		StopChan:  make(chan struct{}),
		Pending:   make(map[string]bool),
	}
	proc.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go proc.worker(i)
	}
	log.Printf("Started %d photo processing worker(s) with queue size %d", numWorkers, queueSize)
	return proc
}

func (pp *PhotoProcessor) worker(id int) {
	defer pp.Wg.Done()

	log.Printf("Photo worker %d started", id)
	for {
		select {
		case job, ok := <-pp.JobQueue:
			if !ok {
				log.Printf("Photo worker %d stopping: Job queue closed", id)
				return
			}

			pendingKey := fmt.Sprintf("%s:%s", job.PhotoID, job.TaskType)
			log.Printf("Worker %d: Received job type '%s' for photo %s", id, job.TaskType, job.PhotoID)

			statusColumn := job.TaskType + "_status"
			err := pp.Photos.MarkTaskProcessing(job.PhotoID, statusColumn)
			if err != nil {
				log.Printf("Worker %d: ERROR marking %s processing for %s: %v. Skipping job.", id, job.TaskType, job.PhotoID, err)
				pp.Mutex.Lock()
				delete(pp.Pending, pendingKey)
				pp.Mutex.Unlock()
				continue
			}

			switch job.TaskType {
			case TaskVersions:
				pp.processVersionsTask(job)
			case TaskMetadata:
				pp.processMetadataTask(job)
			default:
				log.Printf("Worker %d: ERROR unknown task type '%s' for photo %s", id, job.TaskType, job.PhotoID)
			}

			pp.Mutex.Lock()
			delete(pp.Pending, pendingKey)
			pp.Mutex.Unlock()

		case <-pp.StopChan:
			log.Printf("Photo worker %d stopping: Stop signal received", id)
			return
		}
	}
}

// resolveOriginal maps the job to an on-disk path, verifying the file exists
func (pp *PhotoProcessor) resolveOriginal(job PhotoJob) (string, error) {
	originalPath, err := pp.Store.GetFullPath(job.RelativePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve original path: %w", err)
	}
	if _, statErr := os.Stat(originalPath); os.IsNotExist(statErr) {
		return "", fmt.Errorf("original file not found: %w", statErr)
	} else if statErr != nil {
		return "", fmt.Errorf("failed to stat original file: %w", statErr)
	}
	return originalPath, nil
}

// processVersionsTask generates the thumbnail and web versions and updates DB
func (pp *PhotoProcessor) processVersionsTask(job PhotoJob) {
	var taskErr error
	var thumbPathPtr, webPathPtr *string

	originalPath, taskErr := pp.resolveOriginal(job)
	if taskErr != nil {
		log.Printf("Worker: Skipping versions task for %s: %v", job.PhotoID, taskErr)
	} else {
		img, openErr := imaging.Open(originalPath, imaging.AutoOrientation(true))
		if openErr != nil {
			taskErr = fmt.Errorf("failed to decode original: %w", openErr)
			log.Printf("Worker: ERROR %v", taskErr)
		} else {
			filename := filepath.Base(job.RelativePath)

			thumbPath, genErr := pp.Processor.GenerateThumbnail(img, filename)
			if genErr != nil {
				taskErr = fmt.Errorf("thumbnail generation failed: %w", genErr)
				log.Printf("Worker: ERROR %v", taskErr)
			} else {
				thumbPathPtr = &thumbPath
			}

			if taskErr == nil {
				webPath, genErr := pp.Processor.GenerateWebVersion(img, filename)
				if genErr != nil {
					taskErr = fmt.Errorf("web version generation failed: %w", genErr)
					log.Printf("Worker: ERROR %v", taskErr)
				} else {
					webPathPtr = &webPath
					log.Printf("Worker: Generated versions for photo %s", job.PhotoID)
				}
			}
		}
	}

	dbErr := pp.Photos.UpdateVersionsResult(job.PhotoID, thumbPathPtr, webPathPtr, taskErr)
	if dbErr != nil {
		log.Printf("Worker: ERROR updating versions DB result for %s: %v", job.PhotoID, dbErr)
	}
	pp.broadcastResult(job, taskErr)
}

func (pp *PhotoProcessor) processMetadataTask(job PhotoJob) {
	var taskErr error
	var metadata *media.Metadata

	originalPath, taskErr := pp.resolveOriginal(job)
	if taskErr != nil {
		log.Printf("Worker: Skipping metadata task for %s: %v", job.PhotoID, taskErr)
	} else {
		metadata, taskErr = media.ExtractMetadata(originalPath)
		if taskErr != nil {
			log.Printf("Worker: ERROR extracting metadata for %s: %v", job.PhotoID, taskErr)
		} else {
			log.Printf("Worker: Extracted metadata for photo %s", job.PhotoID)
		}
	}

	dbErr := pp.Photos.UpdateMetadataResult(job.PhotoID, metadata, taskErr)
	if dbErr != nil {
		log.Printf("Worker: ERROR updating metadata DB result for %s: %v", job.PhotoID, dbErr)
	}
	pp.broadcastResult(job, taskErr)
}

func (pp *PhotoProcessor) broadcastResult(job PhotoJob, taskErr error) {
	if pp.Hub == nil {
		return
	}
	event := realtime.NewEvent(realtime.EventPhotoProcessed)
	photoID := job.PhotoID
	event.PhotoID = &photoID
	event.Task = job.TaskType
	event.Status = "done"
	if taskErr != nil {
		event.Status = "error"
		event.Error = taskErr.Error()
	}
	pp.Hub.Broadcast(event)
}

// QueueJob queues a specific task if not already pending
func (pp *PhotoProcessor) QueueJob(job PhotoJob) bool {
	// composite key: "photoID:taskType"
	pendingKey := fmt.Sprintf("%s:%s", job.PhotoID, job.TaskType)

	pp.Mutex.Lock()
	if pp.Pending[pendingKey] {
		pp.Mutex.Unlock()
		return false
	}

	pp.Pending[pendingKey] = true
	pp.Mutex.Unlock()

	select {
	case pp.JobQueue <- job:
		log.Printf("Queued task '%s' for photo: %s", job.TaskType, job.PhotoID)
		return true
	default:
		log.Printf("WARNING: Photo processing job queue full. Failed to queue task '%s' for photo: %s", job.TaskType, job.PhotoID)
		pp.Mutex.Lock()
		delete(pp.Pending, pendingKey)
		pp.Mutex.Unlock()
		return false
	}
}

// QueueAllTasks queues both pipeline tasks for a freshly uploaded photo
func (pp *PhotoProcessor) QueueAllTasks(photoID uuid.UUID, relativePath string) {
	pp.QueueJob(PhotoJob{PhotoID: photoID, RelativePath: relativePath, TaskType: TaskVersions})
	pp.QueueJob(PhotoJob{PhotoID: photoID, RelativePath: relativePath, TaskType: TaskMetadata})
}

// EnqueueUpload receives captures from the session tracker. CapturedPhoto
// filenames are store-relative paths of the full-size asset.
func (pp *PhotoProcessor) EnqueueUpload(photo capture.CapturedPhoto) {
	pp.QueueAllTasks(photo.ID, photo.Filename)
}

func (pp *PhotoProcessor) Stop() {
	log.Println("Stopping photo processor workers...")
	close(pp.StopChan)
	pp.Wg.Wait()
	log.Println("All photo processor workers stopped")
}

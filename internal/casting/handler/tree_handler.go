package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/service"
	"github.com/minio/minio-go/v7"
)

// TreeHandler serves waxing: tree creation, the transit queue and photos.
type TreeHandler struct {
	svc         *service.TreeService
	minioClient *minio.Client
	photoBucket string
}

func NewTreeHandler(svc *service.TreeService, minioClient *minio.Client, photoBucket string) *TreeHandler {
	return &TreeHandler{svc: svc, minioClient: minioClient, photoBucket: photoBucket}
}

// Create registers a new wax tree.
// POST /trees
func (h *TreeHandler) Create(c *gin.Context) {
	var req service.CreateTreeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.PostedBy == "" {
		req.PostedBy = GetUserID(c)
	}

	tree, err := h.svc.CreateTree(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, tree)
}

// NextNumber returns the next free tree number for a date.
// GET /trees/next-number?date=YYYY-MM-DD
func (h *TreeHandler) NextNumber(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	next, err := h.svc.NextTreeNo(c.Request.Context(), date)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"date": date, "next_tree_no": next})
}

// TransitQueue lists trees waiting for a flask.
// GET /queue/transit
func (h *TreeHandler) TransitQueue(c *gin.Context) {
	trees, err := h.svc.TransitQueue(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, trees)
}

// UploadPhoto stores a tree photo, in MinIO when configured and on local disk
// otherwise, then records the URL on the tree.
// POST /trees/:treeId/photo
func (h *TreeHandler) UploadPhoto(c *gin.Context) {
	treeID := ParamUint(c, "treeId")
	if treeID == 0 {
		BadRequest(c, "invalid tree id")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		BadRequest(c, "photo file is required: "+err.Error())
		return
	}

	ext := filepath.Ext(fileHeader.Filename)
	objectName := fmt.Sprintf("trees/%d/%s%s", treeID, uuid.New().String()[:8], ext)

	var url string
	if h.minioClient != nil && h.photoBucket != "" {
		src, err := fileHeader.Open()
		if err != nil {
			InternalError(c, "read upload: "+err.Error())
			return
		}
		defer src.Close()

		_, err = h.minioClient.PutObject(c.Request.Context(), h.photoBucket, objectName, src, fileHeader.Size,
			minio.PutObjectOptions{ContentType: fileHeader.Header.Get("Content-Type")})
		if err != nil {
			InternalError(c, "store photo: "+err.Error())
			return
		}
		url = fmt.Sprintf("/%s/%s", h.photoBucket, objectName)
	} else {
		dir := filepath.Join("uploads", "trees", fmt.Sprintf("%d", treeID))
		if err := os.MkdirAll(dir, 0755); err != nil {
			InternalError(c, "create upload dir: "+err.Error())
			return
		}
		savePath := filepath.Join(dir, filepath.Base(objectName))
		if err := c.SaveUploadedFile(fileHeader, savePath); err != nil {
			InternalError(c, "save photo: "+err.Error())
			return
		}
		url = "/" + filepath.ToSlash(savePath)
	}

	tree, err := h.svc.SetPhotoURL(c.Request.Context(), treeID, url)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, tree)
}

package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-records/internal/api/middleware"
	"github.com/peoplehub/hr-records/internal/core/domain"
	"github.com/peoplehub/hr-records/internal/core/ports"
)

type EmployeeHandler struct {
	employeeService ports.EmployeeService
}

func NewEmployeeHandler(employeeService ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// documentResponse exposes document metadata without the file bytes.
type documentResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	FileName    string               `json:"file_name"`
	ContentType string               `json:"content_type"`
	Size        int64                `json:"size"`
	Approved    domain.ApprovalState `json:"approved"`
}

type employeeResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Data      string             `json:"data"`
	ManagerID string             `json:"manager_id,omitempty"`
	Documents []documentResponse `json:"documents"`
}

// Create registers a new employee record, optionally with an initial
// manager and uploaded documents. Managers and admins only.
//
// @Summary      Create an employee record
// @Tags         employees
// @Accept       multipart/form-data
// @Produce      json
// @Success      201  {object}  employeeResponse
// @Failure      400  {object}  map[string]string
// @Router       /api/employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	userID := c.FormValue("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}

	docs, err := formDocuments(c)
	if err != nil {
		return err
	}

	record, err := h.employeeService.Create(c.Request().Context(), ports.CreateEmployeeInput{
		OwnerID:   userID,
		Data:      c.FormValue("data"),
		ManagerID: c.FormValue("managerId"),
		Documents: docs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEmployeeResponse(record))
}

// SelfRegister creates an employee record owned by the calling staff user.
//
// @Summary      Self-register an employee record
// @Tags         employees
// @Accept       multipart/form-data
// @Produce      json
// @Success      201  {object}  employeeResponse
// @Router       /api/employees/self-register [post]
func (h *EmployeeHandler) SelfRegister(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}

	docs, err := formDocuments(c)
	if err != nil {
		return err
	}

	record, err := h.employeeService.Create(c.Request().Context(), ports.CreateEmployeeInput{
		OwnerID:   id.SubjectID,
		Data:      c.FormValue("data"),
		Documents: docs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEmployeeResponse(record))
}

// List returns all employee records for admins, or the caller's own reports
// for managers.
//
// @Summary      List employee records
// @Tags         employees
// @Produce      json
// @Success      200  {array}  employeeResponse
// @Router       /api/employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var records []domain.EmployeeRecord
	if id.Role == domain.RoleAdmin {
		records, err = h.employeeService.ListAll(c.Request().Context())
	} else {
		records, err = h.employeeService.ListByManager(c.Request().Context(), id.SubjectID)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponses(records))
}

// GetByUser returns the record owned by the given user. Staff may only read
// their own record; that ownership check lives here, not in the RBAC layer.
//
// @Summary      Get an employee record by owning user
// @Tags         employees
// @Produce      json
// @Param        userId  path  string  true  "Owning user id"
// @Success      200  {object}  employeeResponse
// @Router       /api/employees/by-user/{userId} [get]
func (h *EmployeeHandler) GetByUser(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	userID := c.Param("userId")
	if id.Role == domain.RoleStaff && userID != id.SubjectID {
		return domain.ErrForbidden
	}

	record, err := h.employeeService.GetByOwner(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(record))
}

// ListByManager returns the records reporting to the given manager. A
// manager may only query themself.
//
// @Summary      List employee records by manager
// @Tags         employees
// @Produce      json
// @Param        managerId  path  string  true  "Manager user id"
// @Success      200  {array}  employeeResponse
// @Router       /api/employees/by-manager/{managerId} [get]
func (h *EmployeeHandler) ListByManager(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	managerID := c.Param("managerId")
	if id.Role == domain.RoleManager && managerID != id.SubjectID {
		return domain.ErrForbidden
	}

	records, err := h.employeeService.ListByManager(c.Request().Context(), managerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponses(records))
}

// AddDocument uploads a document onto an employee record. Staff may only
// touch their own record.
//
// @Summary      Upload a document
// @Tags         documents
// @Accept       multipart/form-data
// @Param        employeeId  path  string  true  "Employee record id"
// @Success      200
// @Router       /api/employees/{employeeId}/documents [post]
func (h *EmployeeHandler) AddDocument(c echo.Context) error {
	employeeID := c.Param("employeeId")
	if err := h.checkRecordOwnership(c, employeeID); err != nil {
		return err
	}

	name := c.FormValue("documentName")
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	up, err := readUpload(name, fh)
	if err != nil {
		return err
	}

	if err := h.employeeService.UpsertDocument(c.Request().Context(), employeeID, up); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// UpdateDocument replaces a document's content. The approval state resets
// to pending, whatever it was.
//
// @Summary      Replace a document's content
// @Tags         documents
// @Accept       multipart/form-data
// @Param        employeeId    path  string  true  "Employee record id"
// @Param        documentName  path  string  true  "Document name"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /api/employees/{employeeId}/documents/{documentName}/update [post]
func (h *EmployeeHandler) UpdateDocument(c echo.Context) error {
	employeeID := c.Param("employeeId")
	if err := h.checkRecordOwnership(c, employeeID); err != nil {
		return err
	}

	name := c.Param("documentName")
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	up, err := readUpload(name, fh)
	if err != nil {
		return err
	}

	if err := h.employeeService.ReplaceDocument(c.Request().Context(), employeeID, name, up); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// DownloadDocument streams a document's file content.
//
// @Summary      Download a document
// @Tags         documents
// @Produce      application/octet-stream
// @Param        employeeId    path  string  true  "Employee record id"
// @Param        documentName  path  string  true  "Document name"
// @Success      200
// @Router       /api/employees/{employeeId}/documents/{documentName}/download [get]
func (h *EmployeeHandler) DownloadDocument(c echo.Context) error {
	employeeID := c.Param("employeeId")
	if err := h.checkRecordOwnership(c, employeeID); err != nil {
		return err
	}

	doc, err := h.employeeService.GetDocument(c.Request().Context(), employeeID, c.Param("documentName"))
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, doc.FileName))
	return c.Blob(http.StatusOK, doc.ContentType, doc.Data)
}

type approveRequest struct {
	Name     string `json:"name" validate:"required"`
	Approved *bool  `json:"approved" validate:"required"`
}

// ApproveDocument records an approval decision. Managers and admins only.
//
// @Summary      Approve or reject a document
// @Tags         documents
// @Accept       json
// @Param        employeeId  path  string          true  "Employee record id"
// @Param        body        body  approveRequest  true  "Decision"
// @Success      200
// @Router       /api/employees/{employeeId}/documents/approve [post]
func (h *EmployeeHandler) ApproveDocument(c echo.Context) error {
	var req approveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.employeeService.ApproveDocument(c.Request().Context(), c.Param("employeeId"), req.Name, *req.Approved); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

type assignManagerRequest struct {
	ManagerID string `json:"managerId"`
}

// AssignManager sets or clears the employee's manager, subject to the
// hierarchy rules enforced by the service.
//
// @Summary      Assign or clear an employee's manager
// @Tags         employees
// @Accept       json
// @Param        employeeId  path  string                true  "Employee record id"
// @Param        body        body  assignManagerRequest  true  "Target manager (empty clears)"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/employees/{employeeId}/assign-manager [post]
func (h *EmployeeHandler) AssignManager(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req assignManagerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.employeeService.AssignManager(c.Request().Context(),
		c.Param("employeeId"), req.ManagerID, id.Role, id.SubjectID); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// checkRecordOwnership lets staff through only when the record belongs to
// them. Managers and admins pass unconditionally.
func (h *EmployeeHandler) checkRecordOwnership(c echo.Context, employeeID string) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if id.Role != domain.RoleStaff {
		return nil
	}
	record, err := h.employeeService.GetByID(c.Request().Context(), employeeID)
	if err != nil {
		return err
	}
	if record.UserID != id.SubjectID {
		return domain.ErrForbidden
	}
	return nil
}

func requireIdentity(c echo.Context) (middleware.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return middleware.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return id, nil
}

// formDocuments decodes the optional "files" multipart field into uploads.
// Each file becomes a document named after its filename.
func formDocuments(c echo.Context) ([]ports.DocumentUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body at all is fine; documents are optional.
		return nil, nil
	}
	files := form.File["files"]
	uploads := make([]ports.DocumentUpload, 0, len(files))
	for _, fh := range files {
		up, err := readUpload(fh.Filename, fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, up)
	}
	return uploads, nil
}

func readUpload(name string, fh *multipart.FileHeader) (ports.DocumentUpload, error) {
	if name == "" {
		name = fh.Filename
	}
	f, err := fh.Open()
	if err != nil {
		return ports.DocumentUpload{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ports.DocumentUpload{}, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return ports.DocumentUpload{
		Name:        name,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func toEmployeeResponse(record *domain.EmployeeRecord) employeeResponse {
	docs := make([]documentResponse, 0, len(record.Documents))
	for _, d := range record.Documents {
		docs = append(docs, documentResponse{
			ID:          d.ID,
			Name:        d.Name,
			FileName:    d.FileName,
			ContentType: d.ContentType,
			Size:        d.Size,
			Approved:    d.Approved,
		})
	}
	return employeeResponse{
		ID:        record.ID,
		UserID:    record.UserID,
		Data:      record.Data,
		ManagerID: record.ManagerID,
		Documents: docs,
	}
}

func toEmployeeResponses(records []domain.EmployeeRecord) []employeeResponse {
	out := make([]employeeResponse, 0, len(records))
	for i := range records {
		out = append(out, toEmployeeResponse(&records[i]))
	}
	return out
}

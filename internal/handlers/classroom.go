package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/insightpath-backend/internal/requestdata"
	"github.com/yungbote/insightpath-backend/internal/services"
)

type ClassroomHandler struct {
	classroomService services.ClassroomService
}

func NewClassroomHandler(classroomService services.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{classroomService: classroomService}
}

func (ch *ClassroomHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req services.ClassroomCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	created, err := ch.classroomService.Create(c.Request.Context(), rd.UserID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"classroom": created})
}

func (ch *ClassroomHandler) ListMine(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	rows, err := ch.classroomService.ListByTeacher(c.Request.Context(), rd.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"classrooms": rows})
}

func (ch *ClassroomHandler) Get(c *gin.Context) {
	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid classroom id"})
		return
	}
	room, err := ch.classroomService.Get(c.Request.Context(), classroomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"classroom": room})
}

func (ch *ClassroomHandler) AddStudent(c *gin.Context) {
	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid classroom id"})
		return
	}
	var req services.RosterStudentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	created, err := ch.classroomService.AddStudent(c.Request.Context(), classroomID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": created})
}

func (ch *ClassroomHandler) ListStudents(c *gin.Context) {
	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid classroom id"})
		return
	}
	rows, err := ch.classroomService.ListStudents(c.Request.Context(), classroomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": rows})
}

func (ch *ClassroomHandler) RefreshAggregates(c *gin.Context) {
	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid classroom id"})
		return
	}
	room, err := ch.classroomService.RefreshAggregates(c.Request.Context(), classroomID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"classroom": room})
}

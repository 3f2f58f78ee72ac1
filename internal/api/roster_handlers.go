package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listStudents(c *gin.Context) {
	students, err := h.Attendance.Students(c.Request.Context())
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	success(c, http.StatusOK, students)
}

func (h *handlers) addStudent(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Attendance.AddStudent(c.Request.Context(), req.Name); err != nil {
		respondErr(c, h.Log, err)
		return
	}
	success(c, http.StatusCreated, gin.H{"name": req.Name})
}

func (h *handlers) listSubjects(c *gin.Context) {
	subjects, err := h.Attendance.Subjects(c.Request.Context())
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	success(c, http.StatusOK, subjects)
}

func (h *handlers) addSubject(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Attendance.AddSubject(c.Request.Context(), req.Name); err != nil {
		respondErr(c, h.Log, err)
		return
	}
	success(c, http.StatusCreated, gin.H{"name": req.Name})
}

func (h *handlers) getTimetable(c *gin.Context) {
	tt, err := h.Attendance.Timetable(c.Request.Context())
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	success(c, http.StatusOK, tt)
}

func (h *handlers) setTimetable(c *gin.Context) {
	var req struct {
		Subjects []string `json:"subjects"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Attendance.SetTimetable(c.Request.Context(), c.Param("day"), req.Subjects); err != nil {
		respondErr(c, h.Log, err)
		return
	}
	success(c, http.StatusOK, gin.H{"day": c.Param("day"), "subjects": req.Subjects})
}

func (h *handlers) timetableFor(c *gin.Context) {
	day, subjects, err := h.Attendance.SubjectsOn(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	success(c, http.StatusOK, gin.H{"date": c.Param("date"), "day": day, "subjects": subjects})
}

func (h *handlers) listHolidays(c *gin.Context) {
	days, err := h.Attendance.Holidays(c.Request.Context())
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	success(c, http.StatusOK, days)
}

func (h *handlers) addHoliday(c *gin.Context) {
	var req struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Attendance.AddHoliday(c.Request.Context(), req.Date); err != nil {
		respondErr(c, h.Log, err)
		return
	}
	success(c, http.StatusCreated, gin.H{"date": req.Date})
}

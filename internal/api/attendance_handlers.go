package api

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rollbook/internal/attendance"
	"rollbook/internal/auth"
	"rollbook/internal/export"
	"rollbook/internal/queue"
)

type markRequest struct {
	Student string `json:"student"`
	Status  string `json:"status"`
}

type submitRequest struct {
	Date    string        `json:"date"`
	Subject string        `json:"subject"`
	Marks   []markRequest `json:"marks"`
}

func (h *handlers) submitAttendance(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	date, err := attendance.ParseDate(req.Date)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	marks := make([]attendance.Mark, 0, len(req.Marks))
	for _, m := range req.Marks {
		st, err := attendance.ParseStatus(m.Status)
		if err != nil {
			respondErr(c, h.Log, err)
			return
		}
		marks = append(marks, attendance.Mark{Student: m.Student, Status: st})
	}

	ctx := c.Request.Context()
	if err := h.Attendance.Submit(ctx, date, req.Subject, marks); err != nil {
		respondErr(c, h.Log, err)
		return
	}
	h.publishSubmitted(c, date.Format(attendance.DateLayout), req.Subject, len(marks))
	success(c, http.StatusCreated, gin.H{"date": date.Format(attendance.DateLayout), "subject": req.Subject, "marks": len(marks)})
}

// publishSubmitted notifies the worker. The submission is already saved, so a
// full or unreachable queue only costs the event, after at most PublishTimeout.
func (h *handlers) publishSubmitted(c *gin.Context, date, subject string, n int) {
	if h.Queue == nil {
		return
	}
	msg, err := queue.NewMessage(queue.TypeAttendanceSubmitted, queue.SubmittedEvent{
		Date:    date,
		Subject: subject,
		Marks:   n,
		By:      auth.FromContext(c).DisplayName(),
		At:      time.Now().UTC(),
	})
	if err == nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.PublishTimeout)
		err = h.Queue.Publish(ctx, msg)
		cancel()
	}
	if err != nil {
		h.Log.Warn("submitted event dropped", zap.String("date", date), zap.String("subject", subject), zap.Error(err))
	}
}

func (h *handlers) viewAttendance(c *gin.Context) {
	f := attendance.Filter{Date: c.Query("date"), Subject: c.Query("subject")}
	v, err := h.Attendance.View(c.Request.Context(), f)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	success(c, http.StatusOK, v)
}

func (h *handlers) exportCSV(c *gin.Context) {
	records, err := h.Attendance.Records(c.Request.Context())
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	var buf bytes.Buffer
	if _, err := export.WriteCSV(&buf, records); err != nil {
		respondErr(c, h.Log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.MonthlyFile+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *handlers) exportXLSX(c *gin.Context) {
	records, err := h.Attendance.Records(c.Request.Context())
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	wb, err := export.NewWorkbook(records)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	var buf bytes.Buffer
	if _, err := wb.WriteTo(&buf); err != nil {
		respondErr(c, h.Log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="attendance.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

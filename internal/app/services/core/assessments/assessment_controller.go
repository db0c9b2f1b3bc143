package assessments

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AssessmentController struct {
	Log               *zap.Logger
	AssessmentUsecase contracts.AssessmentUsecase
}

var (
	assessmentControllerInstance *AssessmentController
	onceAssessmentController     sync.Once
)

func NewAssessmentController(logger *zap.Logger, assessmentUsecase contracts.AssessmentUsecase) *AssessmentController {
	onceAssessmentController.Do(func() {
		instance := &AssessmentController{
			Log:               logger,
			AssessmentUsecase: assessmentUsecase,
		}
		assessmentControllerInstance = instance
	})
	return assessmentControllerInstance
}

func (ctrl *AssessmentController) Create(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("AssessmentController.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreateAssessment)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("AssessmentController.Create error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("AssessmentController.Create validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	owner, _ := r.Context().Value(constvars.CONTEXT_OWNER_CONTEXT_KEY).(models.OwnerContext)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	assessment, err := ctrl.AssessmentUsecase.Create(ctx, request, owner)
	if err != nil {
		ctrl.respondError(w, requestID, "AssessmentController.Create", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateAssessmentSuccessMessage, responses.NewAssessmentResult(assessment))
}

func (ctrl *AssessmentController) Begin(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	assessmentID := chi.URLParam(r, constvars.URLParamAssessmentID)
	ctrl.Log.Info("AssessmentController.Begin called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	assessment, err := ctrl.AssessmentUsecase.Begin(ctx, assessmentID)
	if err != nil {
		ctrl.respondError(w, requestID, "AssessmentController.Begin", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.BeginAssessmentSuccessMessage, responses.NewAssessmentResult(assessment))
}

func (ctrl *AssessmentController) SubmitResponses(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	assessmentID := chi.URLParam(r, constvars.URLParamAssessmentID)
	ctrl.Log.Info("AssessmentController.SubmitResponses called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	request := new(requests.SubmitResponses)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("AssessmentController.SubmitResponses error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("AssessmentController.SubmitResponses validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	assessment, err := ctrl.AssessmentUsecase.SubmitResponses(ctx, assessmentID, request)
	if err != nil {
		ctrl.respondError(w, requestID, "AssessmentController.SubmitResponses", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SubmitResponsesSuccessMessage, responses.NewAssessmentResult(assessment))
}

func (ctrl *AssessmentController) Complete(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	assessmentID := chi.URLParam(r, constvars.URLParamAssessmentID)
	ctrl.Log.Info("AssessmentController.Complete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	owner, _ := r.Context().Value(constvars.CONTEXT_OWNER_CONTEXT_KEY).(models.OwnerContext)

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	assessment, err := ctrl.AssessmentUsecase.Complete(ctx, assessmentID, owner)
	if err != nil {
		ctrl.respondError(w, requestID, "AssessmentController.Complete", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CompleteAssessmentSuccessMessage, responses.NewAssessmentResult(assessment))
}

func (ctrl *AssessmentController) Cancel(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	assessmentID := chi.URLParam(r, constvars.URLParamAssessmentID)
	ctrl.Log.Info("AssessmentController.Cancel called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	request := new(requests.CancelAssessment)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("AssessmentController.Cancel error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	assessment, err := ctrl.AssessmentUsecase.Cancel(ctx, assessmentID, request.Reason)
	if err != nil {
		ctrl.respondError(w, requestID, "AssessmentController.Cancel", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CancelAssessmentSuccessMessage, responses.NewAssessmentResult(assessment))
}

func (ctrl *AssessmentController) FindByID(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	assessmentID := chi.URLParam(r, constvars.URLParamAssessmentID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	assessment, err := ctrl.AssessmentUsecase.FindByID(ctx, assessmentID)
	if err != nil {
		ctrl.respondError(w, requestID, "AssessmentController.FindByID", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindAssessmentSuccessMessage, responses.NewAssessmentResult(assessment))
}

func (ctrl *AssessmentController) ReportURL(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	assessmentID := chi.URLParam(r, constvars.URLParamAssessmentID)
	ctrl.Log.Info("AssessmentController.ReportURL called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	url, err := ctrl.AssessmentUsecase.ReportURL(ctx, assessmentID)
	if err != nil {
		ctrl.respondError(w, requestID, "AssessmentController.ReportURL", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AssessmentReportSuccessMessage, responses.ReportLink{
		AssessmentID: assessmentID,
		URL:          url,
	})
}

func (ctrl *AssessmentController) respondError(w http.ResponseWriter, requestID, operation string, err error) {
	ctrl.Log.Error(operation+" error from usecase",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err),
	)
	if err == context.DeadlineExceeded {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(ctrl.Log, w, err)
}

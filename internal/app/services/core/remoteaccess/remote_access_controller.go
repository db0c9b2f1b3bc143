package remoteaccess

import (
	"context"
	"encoding/json"
	"fmt"
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

type RemoteAccessController struct {
	Log                 *zap.Logger
	RemoteAccessUsecase contracts.RemoteAccessUsecase
	AssessmentUsecase   contracts.AssessmentUsecase
	TemplateStore       contracts.TemplateStore
	LinkBaseURL         string
	DefaultTokenTTL     time.Duration
}

var (
	remoteAccessControllerInstance *RemoteAccessController
	onceRemoteAccessController     sync.Once
)

func NewRemoteAccessController(
	logger *zap.Logger,
	remoteAccessUsecase contracts.RemoteAccessUsecase,
	assessmentUsecase contracts.AssessmentUsecase,
	templateStore contracts.TemplateStore,
	linkBaseURL string,
	defaultTokenTTL time.Duration,
) *RemoteAccessController {
	onceRemoteAccessController.Do(func() {
		instance := &RemoteAccessController{
			Log:                 logger,
			RemoteAccessUsecase: remoteAccessUsecase,
			AssessmentUsecase:   assessmentUsecase,
			TemplateStore:       templateStore,
			LinkBaseURL:         linkBaseURL,
			DefaultTokenTTL:     defaultTokenTTL,
		}
		remoteAccessControllerInstance = instance
	})
	return remoteAccessControllerInstance
}

// IssueLink is the clinician-facing endpoint: mint a token for an existing
// assessment and hand back the shareable URL.
func (ctrl *RemoteAccessController) IssueLink(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	assessmentID := chi.URLParam(r, constvars.URLParamAssessmentID)
	ctrl.Log.Info("RemoteAccessController.IssueLink called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	request := new(requests.IssueRemoteLink)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("RemoteAccessController.IssueLink error decoding JSON",
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

	ttl := ctrl.DefaultTokenTTL
	if request.TTLInMinutes > 0 {
		ttl = time.Duration(request.TTLInMinutes) * time.Minute
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// The assessment must exist and still be open before a link goes out.
	assessment, err := ctrl.AssessmentUsecase.FindByID(ctx, assessmentID)
	if err != nil {
		ctrl.respondError(w, requestID, "RemoteAccessController.IssueLink", err)
		return
	}
	if assessment.Status.Terminal() {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrAssessmentFinalized(nil))
		return
	}

	token, err := ctrl.RemoteAccessUsecase.IssueToken(ctx, assessmentID, request.PatientRef, ttl)
	if err != nil {
		ctrl.respondError(w, requestID, "RemoteAccessController.IssueLink", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.IssueRemoteLinkSuccessMessage, responses.RemoteLink{
		Token:     token.Token,
		URL:       fmt.Sprintf("%s/take/%s", ctrl.LinkBaseURL, token.Token),
		ExpiresAt: token.ExpiresAt,
	})
}

// Take serves the patient-facing form payload: instrument definition plus any
// answers saved so far. Validation only, the token stays live.
func (ctrl *RemoteAccessController) Take(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	opaque := chi.URLParam(r, constvars.URLParamRemoteToken)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := ctrl.RemoteAccessUsecase.Validate(ctx, opaque)
	if err != nil {
		ctrl.respondError(w, requestID, "RemoteAccessController.Take", err)
		return
	}

	assessment, err := ctrl.AssessmentUsecase.Begin(ctx, token.AssessmentID)
	if err != nil {
		ctrl.respondError(w, requestID, "RemoteAccessController.Take", err)
		return
	}

	template, ok := ctrl.TemplateStore.Get(assessment.TemplateID)
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTemplateUnknown(nil, assessment.TemplateID))
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RemoteAssessmentSuccessMessage, responses.RemoteAssessment{
		Template:  template,
		Status:    assessment.Status,
		Responses: assessment.Responses,
	})
}

// SubmitResponses autosaves answers from the remote form. The token is
// validated but not consumed, so the patient can keep saving.
func (ctrl *RemoteAccessController) SubmitResponses(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	opaque := chi.URLParam(r, constvars.URLParamRemoteToken)

	request := new(requests.SubmitResponses)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := ctrl.RemoteAccessUsecase.Validate(ctx, opaque)
	if err != nil {
		ctrl.respondError(w, requestID, "RemoteAccessController.SubmitResponses", err)
		return
	}

	assessment, err := ctrl.AssessmentUsecase.SubmitResponses(ctx, token.AssessmentID, request)
	if err != nil {
		ctrl.respondError(w, requestID, "RemoteAccessController.SubmitResponses", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SubmitResponsesSuccessMessage, responses.NewAssessmentResult(assessment))
}

// Complete finalizes the assessment and consumes the token. Consumption
// happens after the transition commits; a failed finalize leaves the link
// usable for another attempt.
func (ctrl *RemoteAccessController) Complete(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	opaque := chi.URLParam(r, constvars.URLParamRemoteToken)
	ctrl.Log.Info("RemoteAccessController.Complete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	token, err := ctrl.RemoteAccessUsecase.Validate(ctx, opaque)
	if err != nil {
		ctrl.respondError(w, requestID, "RemoteAccessController.Complete", err)
		return
	}

	assessment, err := ctrl.AssessmentUsecase.Complete(ctx, token.AssessmentID, models.OwnerContext{})
	if err != nil {
		ctrl.respondError(w, requestID, "RemoteAccessController.Complete", err)
		return
	}

	if err := ctrl.RemoteAccessUsecase.Consume(ctx, opaque); err != nil {
		ctrl.Log.Error("RemoteAccessController.Complete error consuming token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentIDKey, token.AssessmentID),
			zap.Error(err),
		)
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CompleteAssessmentSuccessMessage, responses.NewAssessmentResult(assessment))
}

func (ctrl *RemoteAccessController) respondError(w http.ResponseWriter, requestID, operation string, err error) {
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

package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	EmailAlreadyRegistered = Definition{Code: "EMAIL_ALREADY_REGISTERED", Message: "Email already registered"}
	InvalidCredentials     = Definition{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}
	Unauthorized           = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidUserID          = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	InvalidRefreshToken    = Definition{Code: "INVALID_REFRESH_TOKEN", Message: "Refresh token invalid or expired"}
	InvalidEmail           = Definition{Code: "INVALID_EMAIL", Message: "Invalid email address"}
	WeakPassword           = Definition{Code: "WEAK_PASSWORD", Message: "Password must be 8 to 72 characters"}
)

// 商家模块错误。
var (
	CompanyNotFound = Definition{Code: "COMPANY_NOT_FOUND", Message: "Company not found"}
	CompanyInactive = Definition{Code: "COMPANY_INACTIVE", Message: "Company inactive"}
)

// 集点卡模块错误。
var (
	CardNotFound         = Definition{Code: "CARD_NOT_FOUND", Message: "Card not found"}
	CardInactive         = Definition{Code: "CARD_INACTIVE", Message: "Card inactive"}
	CardInvalidThreshold = Definition{Code: "CARD_INVALID_THRESHOLD", Message: "Points needed must be positive"}
)

// 顾客档案模块错误。
var (
	ShopperNotFound      = Definition{Code: "SHOPPER_NOT_FOUND", Message: "Shopper profile not found"}
	ShopperAlreadyExists = Definition{Code: "SHOPPER_ALREADY_EXISTS", Message: "Shopper profile already exists"}
)

// 集点进度模块错误（小票提交的全部用户可见结果）。
var (
	ProgressNotFound      = Definition{Code: "PROGRESS_NOT_FOUND", Message: "Progress not found"}
	ProgressAlreadyExists = Definition{Code: "PROGRESS_ALREADY_EXISTS", Message: "Progress for this card already exists"}
	ReceiptNotRecognized  = Definition{Code: "RECEIPT_NOT_RECOGNIZED", Message: "Please take a new picture"}
	ReceiptAlreadyUsed    = Definition{Code: "RECEIPT_ALREADY_USED", Message: "Receipt already redeemed"}
	ExtractionFailed      = Definition{Code: "EXTRACTION_FAILED", Message: "Could not read the receipt, please take a new picture"}
	SubmitConflict        = Definition{Code: "SUBMIT_CONFLICT", Message: "Submission conflicted, please retry"}
	NoActiveReward        = Definition{Code: "NO_ACTIVE_REWARD", Message: "No reward code to redeem"}
)

// 上传相关错误。
var (
	UploadMissingFile = Definition{Code: "UPLOAD_MISSING_FILE", Message: "Image file is required"}
	UploadInvalidType = Definition{Code: "UPLOAD_INVALID_TYPE", Message: "Unsupported image type"}
)

// 限流相关错误。
var (
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, please try again later"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	EmailAlreadyRegistered.Code: EmailAlreadyRegistered,
	InvalidCredentials.Code:     InvalidCredentials,
	Unauthorized.Code:           Unauthorized,
	InvalidUserID.Code:          InvalidUserID,
	InvalidRefreshToken.Code:    InvalidRefreshToken,
	InvalidEmail.Code:           InvalidEmail,
	WeakPassword.Code:           WeakPassword,
	CompanyNotFound.Code:        CompanyNotFound,
	CompanyInactive.Code:        CompanyInactive,
	CardNotFound.Code:           CardNotFound,
	CardInactive.Code:           CardInactive,
	CardInvalidThreshold.Code:   CardInvalidThreshold,
	ShopperNotFound.Code:        ShopperNotFound,
	ShopperAlreadyExists.Code:   ShopperAlreadyExists,
	ProgressNotFound.Code:       ProgressNotFound,
	ProgressAlreadyExists.Code:  ProgressAlreadyExists,
	ReceiptNotRecognized.Code:   ReceiptNotRecognized,
	ReceiptAlreadyUsed.Code:     ReceiptAlreadyUsed,
	ExtractionFailed.Code:       ExtractionFailed,
	SubmitConflict.Code:         SubmitConflict,
	NoActiveReward.Code:         NoActiveReward,
	UploadMissingFile.Code:      UploadMissingFile,
	UploadInvalidType.Code:      UploadInvalidType,
	TooManyRequests.Code:        TooManyRequests,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

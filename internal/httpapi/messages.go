package httpapi

// User-facing messages returned in the {"message": ...} body.
const (
	msgListFailed    = "خطأ في جلب المهام"
	msgEmptyText     = "الرجاء كتابة مهمة أولاً!"
	msgInvalidTask   = "بيانات المهمة غير صحيحة"
	msgCreateFailed  = "خطأ في إضافة المهمة"
	msgTaskNotFound  = "المهمة غير موجودة"
	msgToggleFailed  = "خطأ في تحديث المهمة"
	msgDeleteFailed  = "خطأ في حذف المهمة"
	msgDeleted       = "تم حذف المهمة بنجاح"
	msgInternalError = "خطأ داخلي في الخادم"
)

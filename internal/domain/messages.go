package domain

import "fmt"

// User facing messages. Wording is kept stable because clients match on it.
const (
	MsgInternal           = "خطای داخلی سرور"
	MsgInvalidBody        = "درخواست نامعتبر است"
	MsgInvalidToken       = "توکن نامعتبر است"
	MsgAccessDenied       = "شما دسترسی ندارید"
	MsgBadCredentials     = "ایمیل یا رمز عبور اشتباه است"
	MsgSelfFollow         = "شما نمی توانید خودتان را دنبال کنید"
	MsgSelfUnfollow       = "شما نمی توانید خودتان را از دنبال کردن حذف کنید"
	MsgAlreadyFollowing   = "شما قبلاً این کاربر را دنبال کرده‌اید"
	MsgNotFollowing       = "شما این کاربر را دنبال نکرده‌اید"
	MsgUserNotFound       = "کاربر یافت نشد"
	MsgDesignerNotFound   = "طراح یافت نشد"
	MsgPlayerNotFound     = "بازیکن یافت نشد"
	MsgInvalidQuestionKey = "نوع سوال نامعتبر است"
	MsgNoQuestion         = "سوالی یافت نشد"
	MsgQuestionMissing    = "سوال مورد نظر یافت نشد"
	MsgAlreadyAnswered    = "شما قبلاً به این سوال پاسخ داده‌اید"
	MsgSimilarEmpty       = "لیست سوالات مشابه باید شامل حداقل یک سوال باشد"
	MsgMainQuestionAbsent = "سوال اصلی یافت نشد"
	MsgSimilarSelf        = "سوال اصلی نمی تواند در سوالات مشابه باشد"
	MsgSimilarAbsent      = "یک یا چند سوال مشابه یافت نشد"
	MsgQuestionNotFound   = "سوال یافت نشد"
	MsgCategoryNotFound   = "دسته‌بندی یافت نشد"
)

// Field labels used in validation messages.
const (
	LabelFirstName      = "نام"
	LabelLastName       = "نام خانوادگی"
	LabelPassword       = "رمزعبور"
	LabelRole           = "نوع بازیکن"
	LabelEmail          = "ایمیل"
	LabelUserID         = "شناسه کاربر"
	LabelQuestionKind   = "نوع سوال"
	LabelCategoryID     = "شناسه دسته‌بندی"
	LabelQuestionID     = "شناسه سوال"
	LabelAnswer         = "پاسخ صحیح"
	LabelDesignerID     = "شناسه طراح"
	LabelPlayerID       = "شناسه بازیکن"
	LabelQuestion       = "سوال"
	LabelLevel          = "سطح"
	LabelCategory       = "دسته‌بندی"
	LabelOptionTemplate = "گزینه %s"
)

var persianDigits = [...]string{"۰", "۱", "۲", "۳", "۴", "۵", "۶", "۷", "۸", "۹"}

// OptionLabel returns the label for the n-th option, e.g. "گزینه ۱".
func OptionLabel(n int) string {
	if n >= 0 && n < len(persianDigits) {
		return fmt.Sprintf(LabelOptionTemplate, persianDigits[n])
	}
	return fmt.Sprintf(LabelOptionTemplate, fmt.Sprint(n))
}

func EmptyFieldMessage(label string) string {
	return label + " نمی تواند خالی باشد"
}

func RangeMessage(label string, min, max int) string {
	return fmt.Sprintf("%s باید بین %d و %d باشد", label, min, max)
}

func MaxLengthMessage(label string, max int) string {
	return fmt.Sprintf("%s نمی تواند بیشتر از %d بایت باشد", label, max)
}

func DuplicateMessage(label string) string {
	return label + " تکراری است"
}

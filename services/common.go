package services

func StrPointer(str string) *string {
	return &str
}

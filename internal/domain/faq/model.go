package faq

const Collection = "faqs"

type Faq struct {
	ID       string `firestore:"id" json:"id"`
	Question string `firestore:"question" json:"question"`
	Answer   string `firestore:"answer" json:"answer"`
	Category string `firestore:"category,omitempty" json:"category,omitempty"`
	Order    int    `firestore:"order" json:"order"`
}

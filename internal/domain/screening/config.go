package screening

// Config enumerates every list the filter consults. All handler variants share one Config.
type Config struct {
	Keywords         []string
	FaithExpressions []string
	Prohibited       []string
	Greetings        []string
	AllowGreetings   bool
	EmergencyPhrases []string
	EmergencyMessage string
	MinLength        int
	MaxLength        int
	// MaxRepeat is the longest allowed run of one character; longer runs are INVALID_FORMAT.
	MaxRepeat int
	Messages  Messages
}

// Messages holds the user facing text for each rejection reason.
type Messages struct {
	MessageRequired string
	TooShort        string
	TooLong         string
	InvalidFormat   string
	OffTopic        string
}

// DefaultKeywords lists the books of the Bible plus core theological and church-life vocabulary.
var DefaultKeywords = []string{
	"성경", "하나님", "예수", "그리스도", "주님", "성령", "신앙", "믿음", "구원", "은혜",
	"기도", "예배", "교회", "목사", "장로", "성도", "크리스천", "기독교", "개신교", "개혁신학",
	"칼빈", "루터", "종교개혁", "웨스트민스터", "성화", "칭의", "선택", "예정", "언약",
	"구약", "신약", "창세기", "출애굽기", "레위기", "민수기", "신명기", "여호수아", "사사기", "룻기",
	"사무엘", "열왕기", "역대기", "에스라", "느헤미야", "에스더", "욥기", "시편", "잠언", "전도서", "아가",
	"이사야", "예레미야", "예레미야애가", "에스겔", "다니엘", "호세아", "요엘", "아모스", "오바댜",
	"요나", "미가", "나훔", "하박국", "스바냐", "학개", "스가랴", "말라기",
	"마태복음", "마가복음", "누가복음", "요한복음", "사도행전", "로마서", "고린도전서", "고린도후서",
	"갈라디아서", "에베소서", "빌립보서", "골로새서", "데살로니가전서", "데살로니가후서",
	"디모데전서", "디모데후서", "디도서", "빌레몬서", "히브리서", "야고보서", "베드로전서", "베드로후서",
	"요한일서", "요한이서", "요한삼서", "유다서", "요한계시록",
}

// DefaultFaithExpressions are phrases that mark a faith question even without a keyword.
var DefaultFaithExpressions = []string{
	"어떻게 살아야", "왜 하나님", "주님께서", "말씀에서",
	"신앙", "믿음", "기도", "예배", "교회", "목사",
	"성경에서", "하나님의 뜻", "구원", "천국", "지옥",
	"죄", "회개", "용서", "사랑", "은혜", "축복",
}

// DefaultProhibited covers politics, finance, relationships, violence, other religions and entertainment.
var DefaultProhibited = []string{
	"정치", "선거", "정당", "대통령", "국회의원",
	"주식", "투자", "돈", "부동산", "재테크",
	"연애", "결혼", "이혼", "섹스", "성관계",
	"폭력", "살인", "자살", "마약", "범죄",
	"타종교", "불교", "이슬람", "힌두교", "점술",
	"게임", "영화", "드라마", "연예인", "스포츠",
}

// DefaultGreetings are let through so the assistant can introduce itself.
var DefaultGreetings = []string{"안녕", "반가워", "소개", "도움", "질문"}

// DefaultEmergencyPhrases indicate self-harm ideation.
var DefaultEmergencyPhrases = []string{
	"자살", "죽고싶", "죽고 싶", "살기싫", "살기 싫", "우울해서", "절망적",
	"죽어버리고", "세상이 싫어", "포기하고 싶",
}

// DefaultEmergencyMessage points to the national crisis hotline.
const DefaultEmergencyMessage = "힘든 시간을 보내고 계신 것 같습니다. 전문적인 도움이 필요하시면 생명의전화(109) 또는 가까운 상담센터에 연락해주세요. 하나님께서는 당신을 사랑하고 계십니다. 🙏"

// DefaultConfig returns the stock Korean deployment configuration.
func DefaultConfig() Config {
	return Config{
		Keywords:         append([]string(nil), DefaultKeywords...),
		FaithExpressions: append([]string(nil), DefaultFaithExpressions...),
		Prohibited:       append([]string(nil), DefaultProhibited...),
		Greetings:        append([]string(nil), DefaultGreetings...),
		AllowGreetings:   true,
		EmergencyPhrases: append([]string(nil), DefaultEmergencyPhrases...),
		EmergencyMessage: DefaultEmergencyMessage,
		MinLength:        3,
		MaxLength:        500,
		MaxRepeat:        10,
		Messages: Messages{
			MessageRequired: "메시지를 입력해주세요.",
			TooShort:        "질문이 너무 짧습니다. 더 구체적으로 질문해주세요.",
			TooLong:         "질문이 너무 깁니다. 더 간결하게 질문해주세요. (최대 500자)",
			InvalidFormat:   "올바른 형식의 질문을 입력해주세요.",
			OffTopic:        "죄송합니다. 성경이나 신앙생활과 관련된 질문만 답변드릴 수 있습니다. 🙏",
		},
	}
}

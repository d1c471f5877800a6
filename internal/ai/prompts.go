package ai

import (
	"bytes"
	"text/template"

	"scoresight/internal/data"
)

// Die Prompts sind Teil des Vertrags mit dem Modell. Formulierungen und
// Beispielausgaben hier nur zusammen mit den Parsern anfassen.
const misconceptionPromptText = `The following question had the given wrong answers. Identify the common misconception from these answers and provide a paraphrased explanation. Not all the wrong answers are part of the common misconception; the common misconception is a theme repeated among the wrong answers, so it appears as a subset of the given answers.

**Question:** {{.Question}}

**Wrong Answers:**
{{.WrongAnswers}}

Now, please analyze the wrong answers and output your result as a single JSON object with the following keys:
- "misconception": a brief description of the common misconception.
- "count": the number of times this misconception appears in the list of wrong answers.

**Example Output:**
{"misconception": "The first president of Uganda is Museveni", "count": 5}

Do not include any additional text or formatting; only output the JSON object as shown.

Below is a sample of correct answers. It should help guide you to evaluate what the misconceptions above are. Please note that an AI transcriber picked the data above (misconcpetions) and so it could have incorrectly added some to the list.
{{.CorrectAnswers}}`

const topicsPromptText = `Given the following questions from a {{.SubjectName}} exam, classify each into one of these topics:
{{.Topics}}

Provide your response as a JSON array, where each object corresponds to a question and has these keys:
- question_no: The question number
- topic: The most relevant topic from the list above
- confidence: A number between 0 and 1 indicating confidence in classification
- explanation: A brief explanation of why this topic was chosen

Questions:
{{range .Questions}}- Question No: {{.QuestionNo}}, Question: {{.Question}}
{{end}}
Output only the JSON array.
Leave the Question No as given (e.g., '41(a)', '41(b)(ii)'), and do not convert them to plain integers.`

const visionPromptText = `In this image, first identify if there is a field at the top of the page explicitly labelled 'Name' followed by a colon or on the right of a label 'Name:' on the same line. If such a label exists and a name immediately follows it on the same line, extract that name and assign it as the value of 'studentName' in the output JSON object. If the Name label is not followed by a name on the same line or if the label does not exist, use '{{.LastKnownStudentName}}' as the studentName. For the rest of the content, transcribe only the exam questions into an array of entries. Each entry must be a JSON object with exactly the following keys: 'questionNo', 'question', 'answer', and 'grading'. The output must be a valid JSON object with the following structure:
{ "studentName": "<Extracted or default name>", "entries": [ { "questionNo": "<Question number>", "question": "<Question text>", "answer": "<Answer text>", "grading": "<Correct/Incorrect/Not Graded or empty string>" }, ... ] } For questions with multiple parts (e.g., 36(a)), if there are multiple answers, produce a separate entry for each answer, repeating the question text for each part. If a question provides an option to answer either one part or the other, transcribe only the part that was answered. If the student hasn't answered, leave the 'answer' field empty. Grade each answer as 'Correct' if there is a red tick mark. If an answer has any marks other than a red tick mark and does not have a red tick mark, treat it as 'Incorrect'. If an answer contains a red tick mark along with other marks, treat it as 'Correct'. If no mark is present at all, grade it as 'Not Graded'. Ensure no extra spaces are added at the beginning or end of any text values, and ignore any non-exam instructions.`

var (
	misconceptionTpl = template.Must(template.New("misconception").Parse(misconceptionPromptText))
	topicsTpl        = template.Must(template.New("topics").Parse(topicsPromptText))
	visionTpl        = template.Must(template.New("vision").Parse(visionPromptText))
)

type misconceptionPromptData struct {
	Question       string
	WrongAnswers   string
	CorrectAnswers string
}

type topicsPromptData struct {
	SubjectName string
	Topics      string
	Questions   []data.QuestionItem
}

type visionPromptData struct {
	LastKnownStudentName string
}

func renderPrompt(tpl *template.Template, payload interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, payload); err != nil {
		return "", err
	}
	return buf.String(), nil
}

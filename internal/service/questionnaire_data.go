package service

import "school_exam_backend/internal/model"

const standardTestTitle = "Personality Test"

var standardTestQuestions = [][2]string{
	{"Ques1", "I make friends easily"},
	{"Ques2", "I can manage things at the same time"},
	{"Ques3", "I feel other's emotions"},
	{"Ques4", "I start conversations"},
	{"Ques5", "I need a push to get started"},
	{"Ques6", "I believe that others have good intentions."},
	{"Ques7", "I love to help others."},
	{"Ques8", "I am proud that I am an ordinary person."},
	{"Ques9", "I distrust people."},
	{"Ques10", "I anticipate the needs of others."},
	{"Ques11", "I am quick to understand things."},
	{"Ques12", "I try to follow rules."},
	{"Ques13", "I like to organize things."},
	{"Ques14", "I let others determine my choice."},
	{"Ques15", "I ask others to do my work."},
	{"Ques16", "I don't worry about things that have already happened."},
	{"Ques17", "I tend to feel hopeless."},
	{"Ques18", "I easily resist my temptations."},
	{"Ques19", "I worry about things."},
	{"Ques20", "I generally focus on the negative side of things."},
	{"Ques21", "I am full of ideas."},
	{"Ques22", "I do not like concerts."},
	{"Ques23", "I pay a lot of attention to my feelings."},
	{"Ques24", "I have difficulty understanding abstract ideas."},
	{"Ques25", "I enjoy the beauty of nature."},
	{"Ques26", "I wait for others to lead the way."},
	{"Ques27", "I like to try out new things."},
	{"Ques28", "I am only kind to others if they have been kind to me."},
	{"Ques29", "I take control of things."},
	{"Ques30", "I like to visit new places."},
	{"Ques31", "I respect the privacy of others."},
	{"Ques32", "I hold a grudge."},
	{"Ques33", "I tend to dislike soft-hearted people."},
	{"Ques34", "I stick to rules."},
	{"Ques35", "I value cooperation over competition."},
	{"Ques36", "I do things according to a plan."},
	{"Ques37", "I hang around and do nothing."},
	{"Ques38", "I often make last minute plans."},
	{"Ques39", "I tend to continue until everything is perfect."},
	{"Ques40", "I set high standards for myself and others."},
	{"Ques41", "I lose my temper."},
	{"Ques42", "I am not embarrassed easily."},
	{"Ques43", "I remain calm under pressure."},
	{"Ques44", "I get upset easily."},
	{"Ques45", "I worry about what people think of me."},
	{"Ques46", "I have difficulty imagining things."},
	{"Ques47", "I dislike changes."},
	{"Ques48", "I believe equality between all races."},
	{"Ques49", "I have a vivid imagination."},
	{"Ques50", "I like to begin new things."},
}

// standardPersonalityTest is the fifty-statement test every school uses.
// Each statement is answered on the same five-point agreement scale.
func standardPersonalityTest() *model.PersonalityTest {
	questions := make([]model.TestQuestion, len(standardTestQuestions))
	for i, q := range standardTestQuestions {
		questions[i] = model.TestQuestion{
			Label:   q[0],
			Text:    q[1],
			Options: append([]string(nil), model.LikertOptions...),
		}
	}
	return &model.PersonalityTest{
		Title:       standardTestTitle,
		Description: "This test measures various personality traits. There are 50 questions in total.",
		Questions:   questions,
	}
}

// Package demo holds the sample résumé and journal entry used to show the
// map without uploading anything.
package demo

import (
	"time"

	"github.com/dgallion1/careermap/internal/model"
)

// Documents returns the sample documents stamped with now.
func Documents(now time.Time) []model.ProcessedDocument {
	return []model.ProcessedDocument{
		{
			FileName: "resume.pdf",
			Content:  resume,
			Metadata: model.DocumentMetadata{FileType: "application/pdf", FileSize: int64(len(resume)), ExtractedDate: now},
		},
		{
			FileName: "journal_entry.txt",
			Content:  journal,
			Metadata: model.DocumentMetadata{FileType: "text/plain", FileSize: int64(len(journal)), ExtractedDate: now},
		},
	}
}

const resume = `John Smith
Software Engineer | Full Stack Developer

EXPERIENCE
Software Engineer at TechCorp (2022-2024)
- Developed React applications using JavaScript and TypeScript
- Built REST APIs with Node.js and Express
- Implemented database solutions with PostgreSQL
- Led a team of 3 developers on mobile app project
- Deployed applications using Docker and AWS

Junior Developer at StartupXYZ (2020-2022)
- Created responsive web applications using HTML, CSS, React
- Worked on machine learning models with Python and TensorFlow
- Collaborated with UX designers on user interface improvements
- Managed project timelines using Agile methodology

EDUCATION
Bachelor of Computer Science, University of Technology (2016-2020)
- Studied algorithms, data structures, software engineering
- Completed machine learning and AI coursework
- Graduated with honors

SKILLS
- Programming: JavaScript, Python, TypeScript, Java
- Frameworks: React, Node.js, Express, Django
- Tools: Git, Docker, AWS, MongoDB, PostgreSQL
- Methodologies: Agile, Scrum, Test-Driven Development

GOALS
- Want to become a senior software architect
- Plan to learn cloud technologies like Kubernetes
- Aspire to lead larger development teams
- Hope to contribute to open source projects`

const journal = `Career Reflection - March 2024

I've been thinking about my journey as a software engineer. Started as an intern at TechCorp,
where I learned the fundamentals of web development. The project I'm most proud of is the
customer portal we built - it served over 10,000 users and reduced support tickets by 40%.

Recently completed AWS certification and started learning Kubernetes. My goal is to become
a cloud architect within the next two years. I want to work on larger scale systems and
maybe start my own tech consultancy someday.

Skills I've developed:
- Leadership: Led the mobile app project team
- Communication: Presented to stakeholders regularly
- Problem-solving: Debugged complex production issues
- Analytics: Used data to optimize application performance

Next steps: Apply for senior developer roles, contribute to open source, and start a tech blog
to share my learning journey.`
